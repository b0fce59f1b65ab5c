package unit

import (
	"math"

	"github.com/quantral/quantral/pkg/dimension"
)

// Builtin catalog. Registered when the package is loaded; applications
// may register additional units before calling Finalize.

func dim(l, m, t, i, th, n, j int8) *dimension.Dimension {
	d, err := dimension.FromExponents([7]int8{l, m, t, i, th, n, j})
	if err != nil {
		panic(err)
	}
	return d
}

// Common derived dimensions used by the catalog.
var (
	DimLength      = dim(1, 0, 0, 0, 0, 0, 0)
	DimMass        = dim(0, 1, 0, 0, 0, 0, 0)
	DimTime        = dim(0, 0, 1, 0, 0, 0, 0)
	DimCurrent     = dim(0, 0, 0, 1, 0, 0, 0)
	DimTemperature = dim(0, 0, 0, 0, 1, 0, 0)
	DimAmount      = dim(0, 0, 0, 0, 0, 1, 0)
	DimLuminosity  = dim(0, 0, 0, 0, 0, 0, 1)

	DimArea     = dim(2, 0, 0, 0, 0, 0, 0)
	DimVolume   = dim(3, 0, 0, 0, 0, 0, 0)
	DimVelocity = dim(1, 0, -1, 0, 0, 0, 0)
	DimForce    = dim(1, 1, -2, 0, 0, 0, 0)
	DimPressure = dim(-1, 1, -2, 0, 0, 0, 0)
	DimEnergy   = dim(2, 1, -2, 0, 0, 0, 0)
	DimPower    = dim(2, 1, -3, 0, 0, 0, 0)
	DimFreq     = dim(0, 0, -1, 0, 0, 0, 0)
)

func mustRegister(u *Unit) {
	if err := defaultRegistry.Register(u); err != nil {
		panic(err)
	}
}

func init() {
	// Dimensionless
	mustRegister(&Unit{Name: "unitless", Symbol: "1", Aliases: []string{"dimensionless"}, SIFactor: 1, Dim: dimension.Dimensionless})
	mustRegister(&Unit{Name: "percent", Symbol: "%", SIFactor: 0.01, Dim: dimension.Dimensionless})
	mustRegister(&Unit{Name: "radian", Symbol: "rad", Aliases: []string{"radians"}, SIFactor: 1, Dim: dimension.Dimensionless})
	mustRegister(&Unit{Name: "degree", Symbol: "°", Aliases: []string{"deg", "degrees"}, SIFactor: math.Pi / 180, Dim: dimension.Dimensionless})

	// Length
	mustRegister(&Unit{Name: "meter", Symbol: "m", Aliases: []string{"metre", "meters", "metres"}, SIFactor: 1, Dim: DimLength, prefixable: true})
	mustRegister(&Unit{Name: "inch", Symbol: "in", Aliases: []string{"inches"}, SIFactor: 0.0254, Dim: DimLength})
	mustRegister(&Unit{Name: "foot", Symbol: "ft", Aliases: []string{"feet"}, SIFactor: 0.3048, Dim: DimLength})
	mustRegister(&Unit{Name: "yard", Symbol: "yd", Aliases: []string{"yards"}, SIFactor: 0.9144, Dim: DimLength})
	mustRegister(&Unit{Name: "mile", Symbol: "mi", Aliases: []string{"miles"}, SIFactor: 1609.344, Dim: DimLength})

	// Mass. Kilogram is the coherent SI unit; prefixes attach to gram.
	mustRegister(&Unit{Name: "kilogram", Symbol: "kg", Aliases: []string{"kilograms"}, SIFactor: 1, Dim: DimMass})
	mustRegister(&Unit{Name: "gram", Symbol: "g", Aliases: []string{"grams"}, SIFactor: 1e-3, Dim: DimMass, prefixable: true})
	mustRegister(&Unit{Name: "pound", Symbol: "lb", Aliases: []string{"lbm", "pounds"}, SIFactor: 0.45359237, Dim: DimMass})

	// Time
	mustRegister(&Unit{Name: "second", Symbol: "s", Aliases: []string{"sec", "seconds"}, SIFactor: 1, Dim: DimTime, prefixable: true})
	mustRegister(&Unit{Name: "minute", Symbol: "min", Aliases: []string{"minutes"}, SIFactor: 60, Dim: DimTime})
	mustRegister(&Unit{Name: "hour", Symbol: "hr", Aliases: []string{"h", "hours"}, SIFactor: 3600, Dim: DimTime})
	mustRegister(&Unit{Name: "day", Symbol: "d", Aliases: []string{"days"}, SIFactor: 86400, Dim: DimTime})

	// Electric current
	mustRegister(&Unit{Name: "ampere", Symbol: "A", Aliases: []string{"amp", "amps", "amperes"}, SIFactor: 1, Dim: DimCurrent, prefixable: true})

	// Temperature. Celsius and Fahrenheit are affine.
	mustRegister(&Unit{Name: "kelvin", Symbol: "K", SIFactor: 1, Dim: DimTemperature, prefixable: true})
	mustRegister(&Unit{Name: "celsius", Symbol: "°C", Aliases: []string{"degC"}, SIFactor: 1, SIOffset: 273.15, Dim: DimTemperature})
	mustRegister(&Unit{Name: "fahrenheit", Symbol: "°F", Aliases: []string{"degF"}, SIFactor: 5.0 / 9.0, SIOffset: 459.67 * 5.0 / 9.0, Dim: DimTemperature})

	// Amount and luminosity
	mustRegister(&Unit{Name: "mole", Symbol: "mol", Aliases: []string{"moles"}, SIFactor: 1, Dim: DimAmount, prefixable: true})
	mustRegister(&Unit{Name: "candela", Symbol: "cd", SIFactor: 1, Dim: DimLuminosity, prefixable: true})

	// Force
	mustRegister(&Unit{Name: "newton", Symbol: "N", Aliases: []string{"newtons"}, SIFactor: 1, Dim: DimForce, prefixable: true})
	mustRegister(&Unit{Name: "pound-force", Symbol: "lbf", SIFactor: 4.4482216152605, Dim: DimForce})
	mustRegister(&Unit{Name: "kip", Symbol: "kip", Aliases: []string{"kips"}, SIFactor: 4448.2216152605, Dim: DimForce})

	// Pressure / stress
	mustRegister(&Unit{Name: "pascal", Symbol: "Pa", Aliases: []string{"pascals"}, SIFactor: 1, Dim: DimPressure, prefixable: true})
	mustRegister(&Unit{Name: "psi", Symbol: "psi", SIFactor: 6894.757293168361, Dim: DimPressure})
	mustRegister(&Unit{Name: "ksi", Symbol: "ksi", SIFactor: 6.894757293168361e6, Dim: DimPressure})
	mustRegister(&Unit{Name: "bar", Symbol: "bar", SIFactor: 1e5, Dim: DimPressure, prefixable: true})
	mustRegister(&Unit{Name: "atmosphere", Symbol: "atm", SIFactor: 101325, Dim: DimPressure})

	// Energy, power, frequency
	mustRegister(&Unit{Name: "joule", Symbol: "J", Aliases: []string{"joules"}, SIFactor: 1, Dim: DimEnergy, prefixable: true})
	mustRegister(&Unit{Name: "watt", Symbol: "W", Aliases: []string{"watts"}, SIFactor: 1, Dim: DimPower, prefixable: true})
	mustRegister(&Unit{Name: "hertz", Symbol: "Hz", SIFactor: 1, Dim: DimFreq, prefixable: true})

	// Volume
	mustRegister(&Unit{Name: "liter", Symbol: "L", Aliases: []string{"l", "litre", "liters", "litres"}, SIFactor: 1e-3, Dim: DimVolume, prefixable: true})
}
