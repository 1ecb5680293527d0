package postalcode

import "github.com/thomhuang/happycamper/internal/model"

// Fixtures are coordinates for the codes searched most often. They only
// warm the cache; every other code still goes to the geocoder.
var Fixtures = []model.PostalCodeLocation{
	{Code: "94612", Latitude: 37.8085, Longitude: -122.2712},
	{Code: "94109", Latitude: 37.7917, Longitude: -122.4186},
	{Code: "94115", Latitude: 37.7856, Longitude: -122.4358},
	{Code: "94040", Latitude: 37.3801, Longitude: -122.0867},
	{Code: "94043", Latitude: 37.4056, Longitude: -122.0775},
	{Code: "95376", Latitude: 37.7369, Longitude: -121.4346},
	{Code: "10013", Latitude: 40.7201, Longitude: -74.0050},
}
