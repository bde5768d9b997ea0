package model

// RefTable is the model's append-only, ordered sequence of property
// records; a record's index in the table is its stable reference id
// (spec.md §3.2: "The reference table is append-only during model
// construction. Ref ids are stable.").
type RefTable struct {
	records []*PropertyRecord
}

// Append adds a record and returns its new reference id.
func (t *RefTable) Append(r *PropertyRecord) int {
	t.records = append(t.records, r)
	return len(t.records) - 1
}

// Len returns the number of records currently in the table.
func (t *RefTable) Len() int { return len(t.records) }

// At returns the record at the given reference id.
func (t *RefTable) At(id int) *PropertyRecord { return t.records[id] }

// Records returns the table contents in ref-id order. The caller must
// not mutate the returned slice's records in place.
func (t *RefTable) Records() []*PropertyRecord { return t.records }

// Replace overwrites the record at id, used by the deserializer to
// rebuild a table from wire refs while preserving ref ids.
func (t *RefTable) Replace(id int, r *PropertyRecord) { t.records[id] = r }

// Reset grows the table to n nil entries, used by the deserializer
// before it has reconstructed every ref.
func (t *RefTable) Reset(n int) { t.records = make([]*PropertyRecord, n) }
