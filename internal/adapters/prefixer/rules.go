package prefixer

// propertyPrefixes lists the vendor prefixes emitted for each standard property.
var propertyPrefixes = map[string][]string{
	"appearance":           {"-webkit-", "-moz-"},
	"user-select":          {"-webkit-", "-moz-", "-ms-"},
	"backdrop-filter":      {"-webkit-"},
	"text-size-adjust":     {"-webkit-", "-moz-", "-ms-"},
	"hyphens":              {"-webkit-", "-ms-"},
	"mask-image":           {"-webkit-"},
	"clip-path":            {"-webkit-"},
	"box-decoration-break": {"-webkit-"},
	"tab-size":             {"-moz-"},
}

// renamedProperties maps grid templates to their -ms- equivalents. Gaps and
// auto-flow are left alone since the legacy grid has no auto-placement.
var renamedProperties = map[string]string{
	"grid-template-columns": "-ms-grid-columns",
	"grid-template-rows":    "-ms-grid-rows",
}

// gridPlacements maps item placement to the -ms- start line. The span is
// written to the same name with a -span suffix.
var gridPlacements = map[string]string{
	"grid-column":       "-ms-grid-column",
	"grid-row":          "-ms-grid-row",
	"grid-column-start": "-ms-grid-column",
	"grid-row-start":    "-ms-grid-row",
}

// gridAlignments maps item alignment to the -ms- grid cell alignment.
var gridAlignments = map[string]string{
	"align-self":   "-ms-grid-row-align",
	"justify-self": "-ms-grid-column-align",
}

// valuePrefixes maps property and value to the prefixed value.
var valuePrefixes = map[string]map[string]string{
	"display": {
		"grid":        "-ms-grid",
		"inline-grid": "-ms-inline-grid",
	},
	"position": {
		"sticky": "-webkit-sticky",
	},
}
