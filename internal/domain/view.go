package domain

// TooltipHeader is the first row of every tooltip that has data.
var TooltipHeader = TooltipRow{"Type", "Capacity", "Count"}

// NoWarehousesRow is the only row of a tooltip for a region without data.
var NoWarehousesRow = TooltipRow{"", "No warehouses", ""}

// FillColor returns the CSS fill for a feature, or FallbackColor when its
// region has no visual.
func FillColor(props FeatureProperties, scope Scope, visuals VisualMap) string {
	if v, ok := visuals[ResolveKey(props, scope)]; ok {
		return v.Color.String()
	}
	return FallbackColor
}

// TooltipFor builds the hover tooltip for a feature. The title is the state
// name on the country map and the district name otherwise.
func TooltipFor(props FeatureProperties, scope Scope, visuals VisualMap) Tooltip {
	title := props.StateName
	if !scope.IsCountry() {
		title = props.DistrictName
	}

	v, ok := visuals[ResolveKey(props, scope)]
	if !ok {
		return Tooltip{Title: title, Rows: []TooltipRow{NoWarehousesRow}}
	}

	rows := make([]TooltipRow, 0, len(v.TooltipRows)+1)
	rows = append(rows, TooltipHeader)
	rows = append(rows, v.TooltipRows...)
	return Tooltip{Title: title, Rows: rows}
}
