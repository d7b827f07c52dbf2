package catalog

// Record is a single event as a sales platform returns it, a decoded
// JSON object. Values may be strings, numbers, booleans, nil, nested
// objects or lists.
type Record = map[string]any

// ErrorKey and RawDataKey are the fields of a marker record, the record
// that replaces one that could not be normalized. The rest of the batch
// is unaffected.
const (
	ErrorKey   = "error"
	RawDataKey = "raw_data"
)

// MarkerRecord wraps an unprocessable record together with a
// description of what went wrong.
func MarkerRecord(reason string, raw any) Record {
	return Record{
		ErrorKey:   reason,
		RawDataKey: raw,
	}
}

// IsMarker reports whether rec stands in for a record that failed to
// normalize.
func IsMarker(rec Record) bool {
	_, ok := rec[ErrorKey]
	return ok
}
