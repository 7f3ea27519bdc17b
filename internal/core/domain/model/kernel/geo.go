package kernel

import (
	"errors"
	"strings"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var (
	ErrGeoPointIsNotConstructed = errors.New("GeoPoint must be created via NewGeoPoint")
	ErrPlaceIsNotConstructed    = errors.New("Place must be created via NewPlace")
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	var latErr, lngErr error
	if lat < MinLatitude || lat > MaxLatitude {
		latErr = errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}
	if lng < MinLongitude || lng > MaxLongitude {
		lngErr = errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}
	if err := errors.Join(latErr, lngErr); err != nil {
		return GeoPoint{}, err
	}

	p.lat, p.lng = lat, lng
	return p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 { return p.lat }
func (p GeoPoint) Lng() float64 { return p.lng }

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lng == other.lng
}

// Place is a pickup or drop-off point of a delivery.
type Place struct { //nolint:recvcheck //using for validation
	point   GeoPoint
	address string
	guard   guard.ConstructorGuard
}

func NewPlace(point GeoPoint, address string) (Place, error) {
	p := Place{guard: guard.NewConstructorGuard()}

	var addrErr error
	address = strings.TrimSpace(address)
	if address == "" {
		addrErr = errs.NewValueIsRequiredError("address")
	}
	if err := errors.Join(point.Validate(), addrErr); err != nil {
		return Place{}, err
	}

	p.point, p.address = point, address
	return p, nil
}

func (p Place) Validate() error {
	return p.guard.Validate(ErrPlaceIsNotConstructed)
}

func (p Place) Point() GeoPoint { return p.point }
func (p Place) Address() string { return p.address }
