package fuel

import "myfuel/internal/geo"

// RawList represents the response structure from the fuel price API.
type RawList struct {
	Fecha             string       `json:"Fecha"`
	ListaEESSPrecio   []RawStation `json:"ListaEESSPrecio"`
	Nota              string       `json:"Nota"`
	ResultadoConsulta string       `json:"ResultadoConsulta"`
}

// RawStation is a single fuel station exactly as the feed delivers it:
// every value is a string, decimals use a comma separator.
type RawStation struct {
	CP                      string `json:"C.P."`
	Direccion               string `json:"Dirección"`
	Horario                 string `json:"Horario"`
	Latitud                 string `json:"Latitud"`
	Localidad               string `json:"Localidad"`
	Longitud                string `json:"Longitud (WGS84)"`
	Margen                  string `json:"Margen"`
	Municipio               string `json:"Municipio"`
	PrecioBiodiesel         string `json:"Precio Biodiesel"`
	PrecioBioetanol         string `json:"Precio Bioetanol"`
	PrecioGasNaturalComp    string `json:"Precio Gas Natural Comprimido"`
	PrecioGasNaturalLicuado string `json:"Precio Gas Natural Licuado"`
	PrecioGasesLicuados     string `json:"Precio Gases licuados del petróleo"`
	PrecioGasoleoA          string `json:"Precio Gasoleo A"`
	PrecioGasoleoB          string `json:"Precio Gasoleo B"`
	PrecioGasoleoPremium    string `json:"Precio Gasoleo Premium"`
	PrecioGasolina95E10     string `json:"Precio Gasolina 95 E10"`
	PrecioGasolina95E5      string `json:"Precio Gasolina 95 E5"`
	PrecioGasolina95E5Prem  string `json:"Precio Gasolina 95 E5 Premium"`
	PrecioGasolina98E10     string `json:"Precio Gasolina 98 E10"`
	PrecioGasolina98E5      string `json:"Precio Gasolina 98 E5"`
	PrecioHidrogeno         string `json:"Precio Hidrogeno"`
	Provincia               string `json:"Provincia"`
	Remision                string `json:"Remisión"`
	Rotulo                  string `json:"Rótulo"`
	TipoVenta               string `json:"Tipo Venta"`
	PorcentajeBioEtanol     string `json:"% BioEtanol"`
	PorcentajeEsterMetilico string `json:"% Éster metílico"`
	IDEESS                  string `json:"IDEESS"`
	IDMunicipio             string `json:"IDMunicipio"`
	IDProvincia             string `json:"IDProvincia"`
	IDCCAA                  string `json:"IDCCAA"`
}

// FuelType describes one of the 14 fuel price columns published by the feed.
type FuelType struct {
	// Key is the feed column name without the "Precio " prefix. It is used
	// as the price map key and as the fuel_type value in the history store.
	Key string
	// Label is a short display name for chat output.
	Label string
}

// FuelTypes lists all known price columns in display order.
var FuelTypes = []FuelType{
	{Key: "Gasolina 95 E5", Label: "G95 E5"},
	{Key: "Gasolina 95 E10", Label: "G95 E10"},
	{Key: "Gasolina 95 E5 Premium", Label: "G95 Prem"},
	{Key: "Gasolina 98 E5", Label: "G98 E5"},
	{Key: "Gasolina 98 E10", Label: "G98 E10"},
	{Key: "Gasoleo A", Label: "Gasóleo A"},
	{Key: "Gasoleo B", Label: "Gasóleo B"},
	{Key: "Gasoleo Premium", Label: "G. Premium"},
	{Key: "Biodiesel", Label: "Biodiesel"},
	{Key: "Bioetanol", Label: "Bioetanol"},
	{Key: "Gas Natural Comprimido", Label: "GNC"},
	{Key: "Gas Natural Licuado", Label: "GNL"},
	{Key: "Gases licuados del petróleo", Label: "GLP"},
	{Key: "Hidrogeno", Label: "Hidrógeno"},
}

// rawPrice returns the unparsed price string for a fuel type key.
func (s *RawStation) rawPrice(key string) string {
	switch key {
	case "Gasolina 95 E5":
		return s.PrecioGasolina95E5
	case "Gasolina 95 E10":
		return s.PrecioGasolina95E10
	case "Gasolina 95 E5 Premium":
		return s.PrecioGasolina95E5Prem
	case "Gasolina 98 E5":
		return s.PrecioGasolina98E5
	case "Gasolina 98 E10":
		return s.PrecioGasolina98E10
	case "Gasoleo A":
		return s.PrecioGasoleoA
	case "Gasoleo B":
		return s.PrecioGasoleoB
	case "Gasoleo Premium":
		return s.PrecioGasoleoPremium
	case "Biodiesel":
		return s.PrecioBiodiesel
	case "Bioetanol":
		return s.PrecioBioetanol
	case "Gas Natural Comprimido":
		return s.PrecioGasNaturalComp
	case "Gas Natural Licuado":
		return s.PrecioGasNaturalLicuado
	case "Gases licuados del petróleo":
		return s.PrecioGasesLicuados
	case "Hidrogeno":
		return s.PrecioHidrogeno
	}
	return ""
}

// Station is the normalized, typed form of a fuel station record.
type Station struct {
	Brand        string `json:"brand"`
	Address      string `json:"address"`
	Province     string `json:"province"`
	Municipality string `json:"municipality"`
	PostalCode   string `json:"postalCode"`
	geo.Coordinate
	// Prices maps a fuel type key to its price in EUR. Fuels the station
	// does not sell are absent from the map.
	Prices map[string]float64 `json:"prices"`
	// DistanceKm is populated by the ranking step, not by normalization.
	DistanceKm float64 `json:"distance"`
}

// ExternalID is the station's natural key for history upserts. The feed has
// no stable station identifier across publications, so brand + address +
// postal code is the best available composite.
func (s *Station) ExternalID() string {
	return s.Brand + "-" + s.Address + "-" + s.PostalCode
}
