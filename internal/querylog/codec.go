package querylog

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"

	"cachie/internal/models"
)

// MarshalRecord encodes a SearchRecord as three length-prefixed MUS strings.
func MarshalRecord(rec models.SearchRecord) []byte {
	size := ord.String.Size(rec.Query) +
		ord.String.Size(rec.ClientID) +
		ord.String.Size(rec.SessionID)
	bs := make([]byte, size)
	n := ord.String.Marshal(rec.Query, bs)
	n += ord.String.Marshal(rec.ClientID, bs[n:])
	ord.String.Marshal(rec.SessionID, bs[n:])
	return bs
}

// UnmarshalRecord decodes bytes produced by MarshalRecord.
func UnmarshalRecord(bs []byte) (models.SearchRecord, error) {
	var rec models.SearchRecord

	query, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return rec, fmt.Errorf("query: %w", err)
	}
	offset := n

	clientID, n, err := ord.String.Unmarshal(bs[offset:])
	if err != nil {
		return rec, fmt.Errorf("client_id: %w", err)
	}
	offset += n

	sessionID, _, err := ord.String.Unmarshal(bs[offset:])
	if err != nil {
		return rec, fmt.Errorf("session_id: %w", err)
	}

	rec.Query = query
	rec.ClientID = clientID
	rec.SessionID = sessionID
	return rec, nil
}
