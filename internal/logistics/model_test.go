package logistics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `[{"condition":"Clear"},{"condition":"Fog"}]`, []string{"Clear", "Fog"}},
		{"keyed by role", `{"origin":{"condition":"Sunny"},"destination":{"condition":"Light rain"}}`, []string{"Light rain", "Sunny"}},
		{"single", `{"location":"Boston","condition":"Overcast"}`, []string{"Overcast"}},
		{"null", `null`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l WeatherList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &l))
			assert.Equal(t, tt.want, l.Conditions())
		})
	}
}

func TestFlight_PriceAcceptsNumbers(t *testing.T) {
	var flights []Flight
	require.NoError(t, json.Unmarshal([]byte(`[{"flight":"AA1","price":"$450"},{"flight":"UA2","price":389.5}]`), &flights))
	assert.Equal(t, Price("$450"), flights[0].Price)
	assert.Equal(t, Price("389.5"), flights[1].Price)
}

func TestEndpoint_AcceptsBareCity(t *testing.T) {
	var r Route
	require.NoError(t, json.Unmarshal([]byte(`{"origin":"Boston","destination":{"city":"Miami","hospital":"Jackson Memorial"}}`), &r))
	assert.Equal(t, Endpoint{City: "Boston"}, r.Origin)
	assert.Equal(t, Endpoint{City: "Miami", Hospital: "Jackson Memorial"}, r.Destination)
}

func TestCityCoordinates(t *testing.T) {
	c, ok := LookupCity("  New York ")
	assert.True(t, ok)
	assert.Equal(t, 40.7128, c.Lat)

	assert.Equal(t, DefaultCoordinates, CityCoordinates("Springfield"))

	lax, ok := LookupCity("lax")
	assert.True(t, ok)
	assert.Equal(t, CityCoordinates("Los Angeles"), lax)
	_, ok = LookupCity("SFO")
	assert.False(t, ok)

	miles := DistanceMiles(CityCoordinates("boston"), CityCoordinates("new york"))
	assert.InDelta(t, 190, miles, 5)
	assert.Equal(t, 0.0, DistanceMiles(DefaultCoordinates, DefaultCoordinates))
}
