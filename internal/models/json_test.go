package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	in := JSON{"method": "bank_transfer", "attempt": float64(1)}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"bank_transfer","attempt":1}`, string(data))

	var out JSON
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestJSONMarshalNil(t *testing.T) {
	data, err := json.Marshal(JSON(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestJSONScanAndValue(t *testing.T) {
	v, err := JSON{"a": "b"}.Value()
	require.NoError(t, err)

	var scanned JSON
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, JSON{"a": "b"}, scanned)

	// Non-byte values are ignored, not rejected
	var untouched JSON
	require.NoError(t, untouched.Scan(42))
	assert.Nil(t, untouched)
}

func TestTransactionMetadataRoundTrip(t *testing.T) {
	rec := &TransactionRecord{
		ID:       "TXN-1-abc",
		Type:     TransactionTypeWithdrawal,
		UserID:   1,
		Amount:   30,
		Status:   TransactionStatusPending,
		Metadata: NewJSON(map[string]interface{}{"method": "bank_transfer"}),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var out TransactionRecord
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "bank_transfer", out.Metadata["method"])
	assert.Equal(t, rec.ID, out.ID)
}
