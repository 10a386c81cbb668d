package jsondb

import (
	"sort"
	"strings"
)

// op is the comparison kind of a clause.
type op int

const (
	opEq op = iota
	opGte
	opIn
	opAnyEq
	opAnyContains
	opIsNull
)

// Clause is one recognized filter: a field, a comparison kind, and either a
// literal operand or a placeholder bound to the next positional parameter.
type Clause struct {
	fields  []string
	op      op
	literal any
	set     []string
	bind    bool
}

// Eq matches records whose field equals the next positional parameter.
func Eq(field string) Clause {
	return Clause{fields: []string{field}, op: opEq, bind: true}
}

// EqVal matches records whose field equals the given literal.
func EqVal(field string, v any) Clause {
	return Clause{fields: []string{field}, op: opEq, literal: v}
}

// Gte matches records whose field is >= the next positional parameter.
// Numeric fields compare numerically; ISO date strings compare
// lexicographically, which orders them correctly.
func Gte(field string) Clause {
	return Clause{fields: []string{field}, op: opGte, bind: true}
}

// In matches records whose field is one of the fixed literal values.
func In(field string, values ...string) Clause {
	return Clause{fields: []string{field}, op: opIn, set: values}
}

// AnyEq matches records where at least one of the fields equals the next
// positional parameter (the "username OR email OR nisn" shape). It consumes
// one parameter.
func AnyEq(fields ...string) Clause {
	return Clause{fields: fields, op: opAnyEq, bind: true}
}

// AnyContains matches records where at least one of the fields contains the
// next positional parameter as a case-insensitive substring. It consumes one
// parameter.
func AnyContains(fields ...string) Clause {
	return Clause{fields: fields, op: opAnyContains, bind: true}
}

// IsNull matches records whose field is absent, nil, or the empty string.
// Update paths use it to restate the soft-delete exclusion that reads apply
// implicitly.
func IsNull(field string) Clause {
	return Clause{fields: []string{field}, op: opIsNull}
}

// match tests the clause against one record, consuming parameters from
// params via *next for bound clauses. A bound clause with no parameter left
// fails closed rather than erroring; so does a numeric comparison against a
// value that does not parse.
func (c Clause) match(rec Record, params []any, next *int) bool {
	var operand any
	if c.bind {
		if *next >= len(params) {
			return false
		}
		operand = params[*next]
		*next++
	} else {
		operand = c.literal
	}

	switch c.op {
	case opEq:
		return fieldEquals(rec, c.fields[0], operand)
	case opGte:
		return fieldGte(rec, c.fields[0], operand)
	case opIn:
		v := rec.String(c.fields[0])
		// jadwal records predate the status column; absent means waiting.
		if v == "" && c.fields[0] == "status" {
			v = "menunggu"
		}
		for _, want := range c.set {
			if v == want {
				return true
			}
		}
		return false
	case opAnyEq:
		for _, f := range c.fields {
			if rec[f] != nil && fieldEquals(rec, f, operand) {
				return true
			}
		}
		return false
	case opAnyContains:
		needle := strings.ToLower(asString(operand))
		for _, f := range c.fields {
			if rec[f] == nil {
				continue
			}
			if strings.Contains(strings.ToLower(rec.String(f)), needle) {
				return true
			}
		}
		return false
	case opIsNull:
		v, ok := rec[c.fields[0]]
		if !ok || v == nil {
			return true
		}
		s, isStr := v.(string)
		return isStr && s == ""
	}
	return false
}

// fieldEquals compares a record field to a parameter. The record value's
// type picks the comparison: numbers compare numerically (non-numeric input
// fails closed), booleans accept the string "true", everything else
// compares as strings.
func fieldEquals(rec Record, field string, operand any) bool {
	switch rv := rec[field].(type) {
	case nil:
		return false
	case bool:
		return rv == asBool(operand)
	case int, int64, float64:
		n, _ := rec.Int(field)
		p, ok := asInt(operand)
		return ok && n == p
	default:
		return asString(rv) == asString(operand)
	}
}

func fieldGte(rec Record, field string, operand any) bool {
	switch rv := rec[field].(type) {
	case nil:
		return false
	case int, int64, float64:
		n, _ := rec.Int(field)
		p, ok := asInt(operand)
		return ok && n >= p
	default:
		return asString(rv) >= asString(operand)
	}
}

// JoinShape names one of the fixed denormalization shapes the interpreter
// knows how to resolve. There is no general join machinery.
type JoinShape int

const (
	// JoinNone returns base records as-is.
	JoinNone JoinShape = iota
	// JoinJadwalRefs resolves a jadwal/history record's siswa_id, guru_id
	// and layanan_id references into display fields.
	JoinJadwalRefs
	// JoinGuruLayanan attaches the comma-joined active service names of a
	// guru_bk record under "layanan".
	JoinGuruLayanan
)

// Query describes one read: the base collection, an optional join shape,
// filter clauses evaluated left to right against the positional parameters,
// an optional ordering and an optional limit.
type Query struct {
	From  string
	Join  JoinShape
	Where []Clause

	// OrderBy sorts by this field; SecondaryField, when set, breaks ties
	// between rows sharing an OrderBy value ("tanggal" then "waktu_mulai",
	// "kategori" then "key_setting").
	OrderBy        string
	Desc           bool
	SecondaryField string

	Limit int
}

// Select evaluates the query and returns matching records, denormalized,
// ordered and limited as described. Soft-deleted records are always
// excluded. An unknown collection yields an empty result, not an error.
func (s *Store) Select(q Query, params ...any) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.load()
	if err != nil {
		return nil, err
	}
	out := filter(db, q, params)
	if q.Join != JoinNone {
		for i, rec := range out {
			out[i] = denormalize(db, q.Join, rec)
		}
	}
	if q.OrderBy != "" {
		orderRecords(out, q)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SelectOne returns the first matching record or nil when nothing matches.
func (s *Store) SelectOne(q Query, params ...any) (Record, error) {
	q.Limit = 1
	recs, err := s.Select(q, params...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// Count evaluates the query's filters and returns the surviving record
// count. Join, ordering and limit are ignored.
func (s *Store) Count(q Query, params ...any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(filter(db, q, params)), nil
}

// filter applies soft-delete exclusion and the where clauses, returning
// clones so callers can't reach into the live snapshot. Each record is
// tested with its own parameter cursor starting at zero.
func filter(db *database, q Query, params []any) []Record {
	col := db.collection(q.From)
	if col == nil {
		return []Record{}
	}
	out := []Record{}
	for _, rec := range *col {
		if rec.Deleted() {
			continue
		}
		next := 0
		ok := true
		for _, c := range q.Where {
			if !c.match(rec, params, &next) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// denormalize resolves the fixed cross-collection references of a join shape
// into display fields on the result record. A dangling reference resolves to
// empty strings; the record itself is kept.
func denormalize(db *database, shape JoinShape, rec Record) Record {
	switch shape {
	case JoinJadwalRefs:
		siswa := findByID(db.Users, rec, "siswa_id")
		guru := findByID(db.GuruBK, rec, "guru_id")
		layanan := findByID(db.LayananBK, rec, "layanan_id")
		rec["nama_siswa"] = siswa.String("nama_lengkap")
		rec["nisn"] = siswa.String("nisn")
		rec["nama_guru"] = guru.String("nama_lengkap")
		rec["foto_guru"] = guru.String("foto_profil")
		rec["nama_layanan"] = layanan.String("nama_layanan")
		rec["warna"] = layanan.String("warna")
	case JoinGuruLayanan:
		guruID, _ := rec.Int("id")
		var names []string
		for _, link := range db.GuruLayanan {
			if gid, ok := link.Int("guru_id"); !ok || gid != guruID {
				continue
			}
			lid, _ := link.Int("layanan_id")
			for _, l := range db.LayananBK {
				if id, ok := l.Int("id"); ok && id == lid && l.Bool("is_active") {
					names = append(names, l.String("nama_layanan"))
				}
			}
		}
		rec["layanan"] = strings.Join(names, ", ")
	}
	return rec
}

// findByID looks up the record whose id equals rec's reference field.
// Returns an empty record when the reference is absent or dangling.
func findByID(col []Record, rec Record, refField string) Record {
	want, ok := rec.Int(refField)
	if !ok {
		return Record{}
	}
	for _, r := range col {
		if id, idOK := r.Int("id"); idOK && id == want {
			return r
		}
	}
	return Record{}
}

// orderRecords sorts in place. The sort is stable so ties keep their input
// order.
func orderRecords(recs []Record, q Query) {
	sort.SliceStable(recs, func(i, j int) bool {
		if q.Desc {
			return recordLess(recs[j], recs[i], q)
		}
		return recordLess(recs[i], recs[j], q)
	})
}

func recordLess(a, b Record, q Query) bool {
	if q.SecondaryField != "" {
		return compositeKey(a, q) < compositeKey(b, q)
	}
	av, bv := a[q.OrderBy], b[q.OrderBy]
	an, aok := a.Int(q.OrderBy)
	bn, bok := b.Int(q.OrderBy)
	if aok && bok {
		return an < bn
	}
	return asString(av) < asString(bv)
}

// compositeKey joins both sort fields into one string key; ISO dates, HH:MM
// times and plain setting keys all compare correctly this way. An absent
// secondary value sorts before any real one.
func compositeKey(r Record, q Query) string {
	return r.String(q.OrderBy) + " " + r.String(q.SecondaryField)
}
