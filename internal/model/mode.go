package model

// SourceMode is a human-friendly label for the panel connection state.
// Keep these values stable; they are intended for tabular output.
type SourceMode string

const (
	SourceDelivering   SourceMode = "DELIVERING"
	SourceDisconnected SourceMode = "DISCONNECTED"
)

func SourceModeFromCurrent(currentA float64) SourceMode {
	if currentA != 0 {
		return SourceDelivering
	}
	return SourceDisconnected
}

// LoadMode is a human-friendly label for the load switch state.
type LoadMode string

const (
	LoadOn   LoadMode = "ON"
	LoadShed LoadMode = "SHED"
)

func LoadModeFromPower(powerW float64) LoadMode {
	if powerW != 0 {
		return LoadOn
	}
	return LoadShed
}
