package chargers

import (
	"errors"
	"strings"
	"testing"
)

const sitesHeader = `<?xml version="1.0" encoding="UTF-8"?>
<d2:payload xmlns:d2="http://datex2.eu/schema/3/d2Payload"
            xmlns:com="http://datex2.eu/schema/3/common"
            xmlns:fac="http://datex2.eu/schema/3/facilities"
            xmlns:loc="http://datex2.eu/schema/3/locationReferencing"
            xmlns:locx="http://datex2.eu/schema/3/locationExtension"
            xmlns:egi="http://datex2.eu/schema/3/energyInfrastructure">
  <egi:energyInfrastructureTable>`

const sitesFooter = `  </egi:energyInfrastructureTable>
</d2:payload>`

func wrapSites(sites ...string) []byte {
	return []byte(sitesHeader + strings.Join(sites, "\n") + sitesFooter)
}

const fullSite = `
    <egi:energyInfrastructureSite id="ES-0042">
      <fac:name>
        <com:values><com:value>Electrolinera Test</com:value></com:values>
      </fac:name>
      <fac:lastUpdated>2024-05-01T10:00:00Z</fac:lastUpdated>
      <fac:locationReference>
        <loc:coordinatesForDisplay>
          <loc:latitude>41.3874</loc:latitude>
          <loc:longitude>2.1686</loc:longitude>
        </loc:coordinatesForDisplay>
        <loc:_locationReferenceExtension>
          <loc:facilityLocation>
            <locx:address>
              <locx:postcode>08015</locx:postcode>
              <locx:addressLine><locx:text>Calle Aragón 1</locx:text></locx:addressLine>
              <locx:addressLine><locx:text>Barcelona</locx:text></locx:addressLine>
            </locx:address>
          </loc:facilityLocation>
        </loc:_locationReferenceExtension>
      </fac:locationReference>
      <egi:energyInfrastructureStation>
        <egi:refillPoint>
          <egi:connector>
            <egi:connectorType>CCS</egi:connectorType>
            <egi:maxPowerAtSocket>50000</egi:maxPowerAtSocket>
          </egi:connector>
        </egi:refillPoint>
        <egi:refillPoint>
          <egi:connector>
            <egi:connectorType>Type2</egi:connectorType>
            <egi:maxPowerAtSocket>22000</egi:maxPowerAtSocket>
          </egi:connector>
        </egi:refillPoint>
      </egi:energyInfrastructureStation>
    </egi:energyInfrastructureSite>`

func TestParseFullSite(t *testing.T) {
	result, err := Parse(wrapSites(fullSite))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 charger, got %d", len(result))
	}

	c := result[0]
	if c.ID != "ES-0042" {
		t.Errorf("ID = %q, expected ES-0042", c.ID)
	}
	if c.Name != "Electrolinera Test" {
		t.Errorf("Name = %q, expected value-list unwrap to Electrolinera Test", c.Name)
	}
	if c.Lat != 41.3874 || c.Lon != 2.1686 {
		t.Errorf("coordinates = %f,%f", c.Lat, c.Lon)
	}
	if c.Address != "Calle Aragón 1, Barcelona" {
		t.Errorf("Address = %q", c.Address)
	}
	if c.Postcode != "08015" {
		t.Errorf("Postcode = %q", c.Postcode)
	}
	if c.LastUpdated != "2024-05-01T10:00:00Z" {
		t.Errorf("LastUpdated = %q", c.LastUpdated)
	}

	if len(c.Connectors) != 2 {
		t.Fatalf("expected 2 connectors, got %d", len(c.Connectors))
	}
	first, second := c.Connectors[0], c.Connectors[1]
	if first.Type != "CCS" || first.PowerKW == nil || *first.PowerKW != 50.0 {
		t.Errorf("connector[0] = %+v, expected CCS 50.0 kW", first)
	}
	if second.Type != "Type2" || second.PowerKW == nil || *second.PowerKW != 22.0 {
		t.Errorf("connector[1] = %+v, expected Type2 22.0 kW", second)
	}
}

func TestParseDropsSiteWithoutCoordinates(t *testing.T) {
	noCoords := `
    <egi:energyInfrastructureSite id="ES-NOLOC">
      <fac:locationReference>
        <loc:_locationReferenceExtension>
          <loc:facilityLocation>
            <locx:address><locx:postcode>28001</locx:postcode></locx:address>
          </loc:facilityLocation>
        </loc:_locationReferenceExtension>
      </fac:locationReference>
    </egi:energyInfrastructureSite>`

	result, err := Parse(wrapSites(noCoords, fullSite))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 charger after dropping unlocatable site, got %d", len(result))
	}
	if result[0].ID != "ES-0042" {
		t.Errorf("wrong site survived: %s", result[0].ID)
	}
}

func TestParseLegacyLocationForDisplay(t *testing.T) {
	legacy := `
    <egi:energyInfrastructureSite id="ES-OLD">
      <fac:locationReference>
        <loc:locationForDisplay>
          <loc:latitude>40.0</loc:latitude>
          <loc:longitude>-3.5</loc:longitude>
        </loc:locationForDisplay>
      </fac:locationReference>
    </egi:energyInfrastructureSite>`

	result, err := Parse(wrapSites(legacy))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 charger, got %d", len(result))
	}
	if result[0].Lat != 40.0 || result[0].Lon != -3.5 {
		t.Errorf("coordinates = %f,%f", result[0].Lat, result[0].Lon)
	}
	if result[0].Address != "" {
		t.Errorf("Address = %q, expected empty string for missing address lines", result[0].Address)
	}
}

func TestParseZeroOrMissingPowerIsAbsent(t *testing.T) {
	site := `
    <egi:energyInfrastructureSite id="ES-POW">
      <fac:locationReference>
        <loc:coordinatesForDisplay>
          <loc:latitude>40.0</loc:latitude>
          <loc:longitude>-3.5</loc:longitude>
        </loc:coordinatesForDisplay>
      </fac:locationReference>
      <egi:energyInfrastructureStation>
        <egi:refillPoint>
          <egi:connector>
            <egi:connectorType>CHAdeMO</egi:connectorType>
            <egi:maxPowerAtSocket>0</egi:maxPowerAtSocket>
          </egi:connector>
          <egi:connector>
            <egi:connectorType>Schuko</egi:connectorType>
          </egi:connector>
          <egi:connector>
            <egi:connectorType>Type2</egi:connectorType>
            <egi:maxPowerAtSocket>7360</egi:maxPowerAtSocket>
          </egi:connector>
        </egi:refillPoint>
      </egi:energyInfrastructureStation>
    </egi:energyInfrastructureSite>`

	result, err := Parse(wrapSites(site))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	conns := result[0].Connectors
	if len(conns) != 3 {
		t.Fatalf("expected 3 connectors, got %d", len(conns))
	}
	if conns[0].PowerKW != nil {
		t.Errorf("zero-watt connector should have absent power, got %v", *conns[0].PowerKW)
	}
	if conns[1].PowerKW != nil {
		t.Errorf("connector without power node should have absent power, got %v", *conns[1].PowerKW)
	}
	if conns[2].PowerKW == nil || *conns[2].PowerKW != 7.4 {
		t.Errorf("connector[2].PowerKW = %v, expected 7.4 (7360 W rounded)", conns[2].PowerKW)
	}
}

func TestParseMissingTable(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><d2:payload xmlns:d2="http://datex2.eu/schema/3/d2Payload"></d2:payload>`)

	_, err := Parse(doc)
	if !errors.Is(err, ErrNoSites) {
		t.Errorf("expected ErrNoSites, got %v", err)
	}
}

func TestParseInvalidXML(t *testing.T) {
	_, err := Parse([]byte("{not xml}"))
	if err == nil {
		t.Error("expected error for invalid XML")
	}
	if errors.Is(err, ErrNoSites) {
		t.Error("malformed XML should not be reported as missing sites")
	}
}
