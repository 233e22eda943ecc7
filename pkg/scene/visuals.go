package scene

// Baseline and highlight appearance values. Dimmed opacities are strictly
// positive: the graph topology must stay legible, full invisibility is not an
// allowed state for nodes or edges.
const (
	BaseNodeScale   = 1.0
	BaseNodeOpacity = 0.9
	DimNodeOpacity  = 0.25

	HoverNodeScale = 1.8
	MatchNodeScale = 1.4

	BaseLabelScale   = 1.0
	BaseLabelOpacity = 0.65
	HoverLabelScale  = 1.6

	// Breathing band for edges not overridden by an active highlight.
	BreathingMinOpacity = 0.22
	BreathingMaxOpacity = 0.55

	OverloadEdgeOpacity  = 0.95
	DimmedEdgeOpacity    = 0.08
	SearchEdgeOpacity    = 0.9
	SearchDimEdgeOpacity = 0.02

	// PickRadius is the node hit-sphere radius at scale 1, in display units.
	PickRadius = 6.0
)
