package collector

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AfriQuoteFeed/internal/model"
)

const twoPointPayload = `{"chart":{"error":null,"result":[{"meta":{},"timestamp":[1700000000,1700086400],
"indicators":{"quote":[{"open":[10,11],"high":[10,11],"low":[9,10],"close":[10,11],"volume":[100,200]}]}}]}}`

func TestDecodeChart_TwoPoints(t *testing.T) {
	series, err := DecodeChart("SAFC.CI", []byte(twoPointPayload), NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, series.Data, 2)

	assert.Equal(t, model.Symbol("SAFC.CI"), series.Symbol)
	assert.Equal(t, int64(1700000000000), series.Data[0].Timestamp)
	assert.Equal(t, int64(1700086400000), series.Data[1].Timestamp)
	for i, p := range series.Data {
		require.NotNilf(t, p.Close, "point %d close", i)
	}
	assert.Equal(t, 11.0, *series.Data[1].Close)
	assert.Equal(t, 200.0, *series.Data[1].Volume)
	assert.JSONEq(t, `{}`, string(series.Meta))
}

func TestDecodeChart_ProviderError(t *testing.T) {
	_, err := DecodeChart("XXXX.CI", []byte(`{"chart":{"error":{"code":"Not Found"}}}`), NormalizeOptions{})
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Not Found", pe.Code)
	assert.Equal(t, FailureProvider, Classify(err))
}

func TestDecodeChart_MalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind FailureKind
	}{
		{"not json", `<html>`, FailureTransport},
		{"null result", `{"chart":{"result":null,"error":null}}`, FailurePayload},
		{"empty result", `{"chart":{"result":[],"error":null}}`, FailurePayload},
		{"no quote block", `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[]}}],"error":null}}`, FailurePayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChart("BOAS.SN", []byte(tt.body), NormalizeOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.kind, Classify(err))
		})
	}
}

func TestNormalize_NullsAndShortArrays(t *testing.T) {
	res := chartResult{Timestamp: []int64{1, 2, 3, 4}}
	res.Indicators.Quote = []quoteArrays{{
		Open:   []*float64{model.Float(1), nil},
		High:   []*float64{model.Float(2), model.Float(3), model.Float(4)},
		Low:    nil,
		Close:  []*float64{model.Float(1.5), nil, model.Float(3.5)},
		Volume: []*float64{nil, nil, model.Float(7), model.Float(8)},
	}}

	series, err := normalize("PALM.CI", res, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, series.Data, 2, "points 2 and 4 have no close")
	assert.LessOrEqual(t, len(series.Data), len(res.Timestamp))

	first, third := series.Data[0], series.Data[1]
	assert.Equal(t, int64(1000), first.Timestamp)
	assert.Nil(t, first.Low)
	assert.Nil(t, first.Volume)
	assert.Equal(t, int64(3000), third.Timestamp)
	assert.Nil(t, third.Open, "open array shorter than timestamps")
	assert.Equal(t, 7.0, *third.Volume)
}

func TestNormalize_ZeroHandling(t *testing.T) {
	res := chartResult{Timestamp: []int64{1, 2}}
	res.Indicators.Quote = []quoteArrays{{
		Close:  []*float64{model.Float(0), model.Float(5)},
		Volume: []*float64{model.Float(0), model.Float(0)},
	}}

	kept, err := normalize("SGBC.CI", res, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, kept.Data, 2)
	assert.Equal(t, 0.0, *kept.Data[0].Close)
	assert.Equal(t, 0.0, *kept.Data[1].Volume)

	masked, err := normalize("SGBC.CI", res, NormalizeOptions{ZeroAsMissing: true})
	require.NoError(t, err)
	require.Len(t, masked.Data, 1)
	assert.Nil(t, masked.Data[0].Volume)
}

func TestNormalize_NoTimestamps(t *testing.T) {
	series, err := DecodeChart("NSIA.CI", []byte(`{"chart":{"result":[{"meta":{"currency":"XOF"},"indicators":{"quote":[{}]}}],"error":null}}`), NormalizeOptions{})
	require.NoError(t, err)
	assert.Empty(t, series.Data)

	out, err := json.Marshal(series)
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"NSIA.CI","meta":{"currency":"XOF"},"data":[]}`, string(out))
}

func TestNormalize_TimestampExact(t *testing.T) {
	ts := []int64{0, 1, 1700000000, 4102444800}
	res := chartResult{Timestamp: ts}
	closes := make([]*float64, len(ts))
	for i := range closes {
		closes[i] = model.Float(1)
	}
	res.Indicators.Quote = []quoteArrays{{Close: closes}}

	series, err := normalize("CFAC.CI", res, NormalizeOptions{})
	require.NoError(t, err)
	for i, p := range series.Data {
		assert.Equal(t, ts[i]*1000, p.Timestamp)
	}
}
