package jsondb

// Assignment is one SET item of an update: a field and either a literal
// value, a placeholder bound to the next positional parameter, the current
// timestamp, or an explicit null.
type Assignment struct {
	field string
	value any
	bind  bool
	now   bool
	null  bool
}

// Set assigns the next positional parameter to the field.
func Set(field string) Assignment {
	return Assignment{field: field, bind: true}
}

// SetVal assigns a literal value to the field.
func SetVal(field string, v any) Assignment {
	return Assignment{field: field, value: v}
}

// SetNow assigns the current timestamp to the field (the NOW() of the
// original statements).
func SetNow(field string) Assignment {
	return Assignment{field: field, now: true}
}

// SetNull assigns an explicit null to the field.
func SetNull(field string) Assignment {
	return Assignment{field: field, null: true}
}

// Insert appends a new record built from the field/parameter pairs, with an
// allocated id and fresh created_at/updated_at stamps, persists the store
// and returns the new id. Parameters align positionally with fields; nil
// values are skipped so absent optional columns stay absent.
func (s *Store) Insert(collection string, fields []string, params ...any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.load()
	if err != nil {
		return 0, err
	}
	col := db.collection(collection)
	if col == nil {
		return 0, errUnknownCollection(collection)
	}

	stamp := s.timestamp()
	rec := Record{
		"id":         nextID(*col),
		"created_at": stamp,
		"updated_at": stamp,
	}
	for i, f := range fields {
		if i >= len(params) || params[i] == nil {
			continue
		}
		rec[f] = params[i]
	}

	*col = append(*col, rec)
	if err := s.save(db); err != nil {
		return 0, err
	}
	id, _ := rec.Int("id")
	return id, nil
}

// Update applies the assignments to every record matching the where clauses
// and returns how many changed. Zero matches is not an error. Parameters are
// consumed left to right: bound assignments first, then bound where clauses.
// updated_at is refreshed unless the caller assigns it explicitly.
//
// Unlike reads, update matching does not skip soft-deleted records; a
// targeted update can still reach them. Callers that want the exclusion add
// IsNull("deleted_at") to the where clauses.
func (s *Store) Update(collection string, set []Assignment, where []Clause, params ...any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.load()
	if err != nil {
		return 0, err
	}
	col := db.collection(collection)
	if col == nil {
		return 0, nil
	}

	// Resolve assignments once; the same values apply to every match.
	stamp := s.timestamp()
	values := make(map[string]any, len(set)+1)
	touchesUpdatedAt := false
	next := 0
	for _, a := range set {
		switch {
		case a.now:
			values[a.field] = stamp
		case a.null:
			values[a.field] = nil
		case a.bind:
			if next >= len(params) {
				continue
			}
			values[a.field] = params[next]
			next++
		default:
			values[a.field] = a.value
		}
		if a.field == "updated_at" {
			touchesUpdatedAt = true
		}
	}
	whereParams := params[min(next, len(params)):]

	affected := 0
	for _, rec := range *col {
		cursor := 0
		ok := true
		for _, c := range where {
			if !c.match(rec, whereParams, &cursor) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for f, v := range values {
			rec[f] = v
		}
		if !touchesUpdatedAt {
			rec["updated_at"] = stamp
		}
		affected++
	}

	if err := s.save(db); err != nil {
		return 0, err
	}
	return affected, nil
}

// SoftDelete marks the record with the given id as deleted. It is an Update
// setting deleted_at; already-deleted records are not matched again, so the
// affected count doubles as a found/not-found signal.
func (s *Store) SoftDelete(collection string, id int) (int, error) {
	return s.Update(collection,
		[]Assignment{SetNow("deleted_at")},
		[]Clause{Eq("id"), IsNull("deleted_at")},
		id)
}

type errUnknownCollection string

func (e errUnknownCollection) Error() string {
	return "unknown collection: " + string(e)
}
