package servers

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrNotObject  = errors.New("directory document is not a JSON object")
	ErrBadRecord  = errors.New("malformed server record")
	errNoAddress  = errors.Wrap(ErrBadRecord, "missing address")
	errNotARecord = errors.Wrap(ErrBadRecord, "not an object")
)

type responseJSON struct {
	List     json.RawMessage `json:"list"`
	Total    json.RawMessage `json:"total"`
	TotalMax json.RawMessage `json:"total_max"`
}

// Decode parses a directory document. Only a document that is not a JSON
// object at all is an error; a bad entry is dropped and counted in Skipped.
func Decode(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	var doc responseJSON
	if errParse := json.Unmarshal(trimmed, &doc); errParse != nil {
		return nil, errors.Wrap(errParse, "Failed to parse directory")
	}

	resp := &Response{
		Total:    decodeTotals(doc.Total),
		TotalMax: decodeTotals(doc.TotalMax),
		raw:      body,
	}

	var entries []json.RawMessage
	if len(doc.List) == 0 || json.Unmarshal(doc.List, &entries) != nil || entries == nil {
		return resp, nil
	}

	resp.List = make([]Record, 0, len(entries))
	for _, entry := range entries {
		rec, errRec := DecodeRecord(entry)
		if errRec != nil {
			resp.Skipped++
			continue
		}
		resp.List = append(resp.List, rec)
	}

	return resp, nil
}

// DecodeRecord parses and normalizes a single server entry.
func DecodeRecord(entry json.RawMessage) (Record, error) {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, errNotARecord
	}
	var rj recordJSON
	if errParse := json.Unmarshal(trimmed, &rj); errParse != nil {
		return Record{}, errors.Wrap(ErrBadRecord, errParse.Error())
	}
	if rj.Address.Value == "" {
		return Record{}, errNoAddress
	}
	return rj.record(), nil
}

func decodeTotals(raw json.RawMessage) *Totals {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var t Totals
	if json.Unmarshal(trimmed, &t) != nil {
		return nil
	}
	t.Clients = t.Clients.nonNegative()
	t.Servers = t.Servers.nonNegative()
	return &t
}
