package bot

import (
	"fmt"
	"html"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"myfuel/internal/nearby"
	"myfuel/pkg/chargers"
	"myfuel/pkg/fuel"
)

// maxConnectorsShown caps the connector list per charger in chat output.
const maxConnectorsShown = 4

// FormatEnvelope renders a query result as a Telegram HTML message.
func FormatEnvelope(env *nearby.Envelope) string {
	var sb strings.Builder

	sb.WriteString("<b>⛽️ Gasolineras cercanas:</b>\n\n")
	for i := range env.FuelStations {
		writeStation(&sb, &env.FuelStations[i])
	}

	sb.WriteString("<b>⚡️ Cargadores Eléctricos cercanos:</b>\n\n")
	for i := range env.Chargers {
		writeCharger(&sb, &env.Chargers[i])
	}

	return sb.String()
}

func writeStation(sb *strings.Builder, st *fuel.Station) {
	fmt.Fprintf(sb, "📍 <a href='http://www.google.com/maps/place/%f,%f'><b>%s</b></a> (a %s)\n",
		st.Lat, st.Lon, html.EscapeString(st.Brand), formatDistance(st.DistanceKm))
	fmt.Fprintf(sb, "<i>%s</i>\n", html.EscapeString(capitalize(st.Address)))

	hasPrices := false
	for _, ft := range fuel.FuelTypes {
		price, ok := st.Prices[ft.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, " ▪️ %s: <b>%.3f€</b>\n", ft.Label, price)
		hasPrices = true
	}
	if !hasPrices {
		sb.WriteString(" ▪️ Precios no disponibles\n")
	}
	sb.WriteString("\n")
}

func writeCharger(sb *strings.Builder, c *chargers.Charger) {
	name := c.Name
	if name == "" {
		name = "Cargador"
	}
	address := c.Address
	if address == "" {
		address = "CP " + c.Postcode
	}

	fmt.Fprintf(sb, "🔋 <a href='http://www.google.com/maps/place/%f,%f'><b>%s</b></a> (a %s)\n",
		c.Lat, c.Lon, html.EscapeString(name), formatDistance(c.DistanceKm))
	fmt.Fprintf(sb, "<i>%s</i>\n", html.EscapeString(address))

	if len(c.Connectors) == 0 {
		sb.WriteString(" ▪️ Información de conectores no disp.\n\n")
		return
	}

	shown := c.Connectors
	if len(shown) > maxConnectorsShown {
		shown = shown[:maxConnectorsShown]
	}
	for _, conn := range shown {
		if conn.PowerKW != nil {
			fmt.Fprintf(sb, "▪️ %s: <b>%.1fkW</b>\n", connectorLabel(conn.Type), *conn.PowerKW)
		} else {
			fmt.Fprintf(sb, "▪️ %s\n", connectorLabel(conn.Type))
		}
	}
	sb.WriteString("\n")
}

func formatDistance(distKm float64) string {
	// Round to meters first so 999.5m+ renders as kilometers, not "1000m".
	meters := int(math.Round(distKm * 1000))
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	return fmt.Sprintf("%.2fkm", distKm)
}

// capitalize uppercases the first rune and lowercases the rest, matching
// the all-caps addresses the fuel feed publishes.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// connectorLabel shortens the verbose IEC connector type codes the DGT
// publication uses.
func connectorLabel(connType string) string {
	if connType == "" {
		return "Desconocido"
	}
	label := strings.ReplaceAll(connType, "iec62196", "")
	label = strings.ReplaceAll(label, "COMBO", " Combo")
	return label
}
