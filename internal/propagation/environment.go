package propagation

// EnvironmentType selects the built-in path-loss exponent and floor loss
type EnvironmentType string

const (
	EnvOffice      EnvironmentType = "office"
	EnvResidential EnvironmentType = "residential"
	EnvCommercial  EnvironmentType = "commercial"
	EnvIndustrial  EnvironmentType = "industrial"
)

type environmentDefaults struct {
	exponent  float64
	floorLoss float64
}

var builtinEnvironments = map[EnvironmentType]environmentDefaults{
	EnvOffice:      {exponent: 3.0, floorLoss: 15},
	EnvResidential: {exponent: 2.8, floorLoss: 10},
	EnvCommercial:  {exponent: 2.2, floorLoss: 12},
	EnvIndustrial:  {exponent: 2.1, floorLoss: 8},
}

// Obstacle attenuation per unit, in dB
const (
	ThinWallLossDB  = 3.0
	ThickWallLossDB = 15.0
	FloorLossDB     = 20.0
	GlassLossDB     = 2.0
)

// Obstacles counts what lies between transmitter and receiver.
// Only the multi-wall model reads it.
type Obstacles struct {
	ThinWalls   int `json:"thinWalls"`
	ThickWalls  int `json:"thickWalls"`
	Floors      int `json:"floors"`
	GlassPanels int `json:"glassPanels"`
}

// Attenuation returns the summed obstacle loss in dB
func (o Obstacles) Attenuation() float64 {
	return float64(o.ThinWalls)*ThinWallLossDB +
		float64(o.ThickWalls)*ThickWallLossDB +
		float64(o.Floors)*FloorLossDB +
		float64(o.GlassPanels)*GlassLossDB
}

// Environment describes the propagation surroundings.
//
// Optional overrides are pointers so that an explicit 0 can be told apart
// from "not set"; a set override always wins over the built-in value for Type.
type Environment struct {
	Type             EnvironmentType `json:"type"`
	PathLossExponent *float64        `json:"pathLossExponent,omitempty"`
	WallLossDB       *float64        `json:"wallLossDb,omitempty"`
	FloorLossDB      *float64        `json:"floorLossDb,omitempty"`
	FloorsCrossed    int             `json:"floorsCrossed"`
	Obstacles        Obstacles       `json:"obstacles"`
}

// DefaultEnvironment is an office with no overrides
func DefaultEnvironment() Environment {
	return Environment{Type: EnvOffice}
}

func (e Environment) defaults() environmentDefaults {
	if d, ok := builtinEnvironments[e.Type]; ok {
		return d
	}
	return builtinEnvironments[EnvOffice]
}

// KnownEnvironment reports whether t is one of the built-in environment types
func KnownEnvironment(t EnvironmentType) bool {
	_, ok := builtinEnvironments[t]
	return ok
}

// Exponent resolves the path-loss exponent n
func (e Environment) Exponent() float64 {
	if e.PathLossExponent != nil {
		return *e.PathLossExponent
	}
	return e.defaults().exponent
}

// FloorLoss resolves the per-floor penetration loss in dB
func (e Environment) FloorLoss() float64 {
	if e.FloorLossDB != nil {
		return *e.FloorLossDB
	}
	return e.defaults().floorLoss
}

// WallLoss resolves the flat wall loss in dB (0 unless overridden)
func (e Environment) WallLoss() float64 {
	if e.WallLossDB != nil {
		return *e.WallLossDB
	}
	return 0
}
