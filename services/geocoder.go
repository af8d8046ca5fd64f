// File: services/geocoder.go
package services

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/locationservice"
	"github.com/aws/aws-sdk-go/service/locationservice/locationserviceiface"
	"github.com/juju/errors"
	"googlemaps.github.io/maps"

	"footy-stadia/logger"
)

// Location is the single best match for a free-text address.
type Location struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoder resolves an address. An address with no match is reported as
// errors.NotValid; transport and provider failures are returned as-is.
// Neither case is retried.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

func invalidAddress(address string) error {
	return errors.NotValidf("address %q", address)
}

// ------------------ google ------------------

// GoogleGeocoder uses the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder builds a geocoder for apiKey. Extra options (such as
// maps.WithBaseURL in tests) are passed through to the maps client.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, errors.Annotate(err, "creating google maps client")
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalidAddress(address)
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return nil, invalidAddress(address)
		}
		logger.Error.Printf("GoogleGeocoder: geocoding %q failed: %v", address, err)
		return nil, errors.Annotatef(err, "geocoding %q", address)
	}
	if len(results) == 0 {
		return nil, invalidAddress(address)
	}

	best := results[0]
	return &Location{
		Latitude:         best.Geometry.Location.Lat,
		Longitude:        best.Geometry.Location.Lng,
		FormattedAddress: best.FormattedAddress,
	}, nil
}

// ------------------ amazon location service ------------------

// AWSGeocoder uses an Amazon Location Service place index.
type AWSGeocoder struct {
	client    locationserviceiface.LocationServiceAPI
	indexName string
}

// NewAWSGeocoder creates a geocoder querying indexName.
func NewAWSGeocoder(sess *session.Session, indexName string) *AWSGeocoder {
	return NewAWSGeocoderWithClient(locationservice.New(sess), indexName)
}

// NewAWSGeocoderWithClient is NewAWSGeocoder with an explicit client.
func NewAWSGeocoderWithClient(client locationserviceiface.LocationServiceAPI, indexName string) *AWSGeocoder {
	return &AWSGeocoder{client: client, indexName: indexName}
}

func (g *AWSGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalidAddress(address)
	}

	out, err := g.client.SearchPlaceIndexForTextWithContext(ctx, &locationservice.SearchPlaceIndexForTextInput{
		IndexName:  aws.String(g.indexName),
		Text:       aws.String(address),
		MaxResults: aws.Int64(1),
	})
	if err != nil {
		logger.Error.Printf("AWSGeocoder: geocoding %q failed: %v", address, err)
		return nil, errors.Annotatef(err, "geocoding %q", address)
	}
	if len(out.Results) == 0 {
		return nil, invalidAddress(address)
	}

	place := out.Results[0].Place
	if place == nil || place.Geometry == nil || len(place.Geometry.Point) < 2 {
		return nil, invalidAddress(address)
	}
	// Point is [longitude, latitude]
	return &Location{
		Latitude:         aws.Float64Value(place.Geometry.Point[1]),
		Longitude:        aws.Float64Value(place.Geometry.Point[0]),
		FormattedAddress: aws.StringValue(place.Label),
	}, nil
}
