// Package geoip annotates resolved addresses with their geographic
// origin using MaxMind MMDB databases.
package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Location is the place an IP address maps to. Fields may be empty when
// the database has no data for the address.
type Location struct {
	Country string // ISO country code, e.g. "US"
	City    string
}

// String renders the location as "City, Country", omitting empty parts.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	case l.City != "":
		return l.City
	}
	return "unknown"
}

// IPLookup defines the interface for resolving an IP to a location.
type IPLookup interface {
	Lookup(ip net.IP) (*Location, error)
}

// Reader wraps a MaxMind MMDB database for IP geolocation lookups.
// It implements the IPLookup interface.
type Reader struct {
	db *geoip2.Reader
}

// NewReader opens the MMDB file at the given path and returns a Reader.
// The caller must call Close when finished.
func NewReader(mmdbPath string) (*Reader, error) {
	db, err := geoip2.Open(mmdbPath)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

// Close releases the underlying MMDB database resources.
func (r *Reader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Lookup returns the location recorded for the given IP address.
func (r *Reader) Lookup(ip net.IP) (*Location, error) {
	city, err := r.db.City(ip)
	if err != nil {
		return nil, err
	}
	return &Location{
		Country: city.Country.IsoCode,
		City:    city.City.Names["en"],
	}, nil
}
