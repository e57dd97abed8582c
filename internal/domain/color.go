package domain

import "fmt"

// Color is the RGBA render tint of a participant's pawn.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// OpaqueWhite is the untinted render used when no saved color is available.
var OpaqueWhite = Color{R: 255, G: 255, B: 255, A: 255}

// WardenBlue returns the warden tint, keeping the given alpha so transparency effects survive.
func WardenBlue(alpha uint8) Color {
	return Color{R: 0, G: 0, B: 255, A: alpha}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
