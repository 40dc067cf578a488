package chargers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"myfuel/internal/geo"
)

// ErrNoSites is returned when the publication parses as XML but lacks the
// mandatory energy infrastructure table or any site under it. It signals
// schema drift rather than a transport failure.
var ErrNoSites = errors.New("publication missing energy infrastructure sites")

const wattsPerKw = 1000.0

// Parse converts the raw XML publication into normalized chargers.
// Sites without display coordinates are dropped: a charger we cannot place
// on the map is useless downstream, and defaulting to 0,0 would be worse.
func Parse(data []byte) ([]Charger, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("error parsing XML: document has no root element")
	}

	// The document root is d2:payload; the table hangs directly under it.
	table := childElem(root, "energyInfrastructureTable")
	sites := childElems(table, "energyInfrastructureSite")
	if len(sites) == 0 {
		return nil, ErrNoSites
	}

	result := make([]Charger, 0, len(sites))
	for _, site := range sites {
		charger, ok := normalizeSite(site)
		if !ok {
			continue
		}
		result = append(result, charger)
	}
	return result, nil
}

// normalizeSite flattens one site node. Elements are matched by local name
// so prefix churn in the publication does not break traversal; all helpers
// tolerate nil so missing optional branches simply yield empty values.
func normalizeSite(site *etree.Element) (Charger, bool) {
	locRef := childElem(site, "locationReference")

	// Older publications used locationForDisplay for the same node.
	display := childElem(locRef, "coordinatesForDisplay")
	if display == nil {
		display = childElem(locRef, "locationForDisplay")
	}
	lat, latErr := parseFinite(text(childElem(display, "latitude")))
	lon, lonErr := parseFinite(text(childElem(display, "longitude")))
	if latErr != nil || lonErr != nil {
		return Charger{}, false
	}

	address := childElem(childElem(childElem(locRef, "_locationReferenceExtension"), "facilityLocation"), "address")

	var lines []string
	for _, line := range childElems(address, "addressLine") {
		if t := text(childElem(line, "text")); t != "" {
			lines = append(lines, t)
		}
	}

	var connectors []Connector
	for _, station := range childElems(site, "energyInfrastructureStation") {
		for _, rp := range childElems(station, "refillPoint") {
			for _, conn := range childElems(rp, "connector") {
				connectors = append(connectors, Connector{
					Type:    text(childElem(conn, "connectorType")),
					PowerKW: powerKw(text(childElem(conn, "maxPowerAtSocket"))),
				})
			}
		}
	}

	return Charger{
		ID:          site.SelectAttrValue("id", ""),
		Name:        text(childElem(site, "name")),
		Address:     strings.Join(lines, ", "),
		Postcode:    text(childElem(address, "postcode")),
		Coordinate:  geo.Coordinate{Lat: lat, Lon: lon},
		Connectors:  connectors,
		LastUpdated: text(childElem(site, "lastUpdated")),
	}, true
}

// powerKw converts a watts string to kilowatts rounded to one decimal.
// Zero or unparseable power is reported as absent.
func powerKw(watts string) *float64 {
	w, err := parseFinite(watts)
	if err != nil || w <= 0 {
		return nil
	}
	kw := math.Round(w/wattsPerKw*10) / 10
	return &kw
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value: %s", s)
	}
	return v, nil
}

// childElem returns the first child of e whose local name matches, or nil.
func childElem(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, child := range e.ChildElements() {
		if child.Tag == local {
			return child
		}
	}
	return nil
}

// childElems returns all children of e whose local name matches.
func childElems(e *etree.Element, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range e.ChildElements() {
		if child.Tag == local {
			out = append(out, child)
		}
	}
	return out
}

// text resolves an element to plain text, unwrapping one level of the
// multilingual values/value indirection some nodes use.
func text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	if values := childElem(e, "values"); values != nil {
		if value := childElem(values, "value"); value != nil {
			return text(value)
		}
	}
	return strings.TrimSpace(e.Text())
}
