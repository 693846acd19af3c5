package fastmath

const (
	halfPi  = 1.570796326794897
	inv2Pi  = 0.1591549430918953
	piFloat = 3.141592653589793
)

// Sin2Pi approximates sin(2πx). Any finite x is accepted.
func Sin2Pi(x float32) float32 {
	x -= Floor(x)
	xp1 := x + x - 1
	xp2 := Abs(xp1)
	xp := halfPi - halfPi*Abs(xp2+xp2-1)

	return -Copysign(1, xp1) * (xp + xp*xp*(-0.05738534102710938-0.1107398163618408*xp))
}

// Sin approximates sin(x), x in radians.
func Sin(x float32) float32 {
	return Sin2Pi(inv2Pi * x)
}

// Cos2Pi approximates cos(2πx).
func Cos2Pi(x float32) float32 {
	return Sin2Pi(x + 0.25)
}

// Cos approximates cos(x), x in radians.
func Cos(x float32) float32 {
	return Cos2Pi(inv2Pi * x)
}

// Tan2Pi approximates tan(2πx). x must stay clear of the poles at
// odd multiples of 1/4.
func Tan2Pi(x float32) float32 {
	return Sin2Pi(x) * Rcp(Cos2Pi(x))
}

// Tan approximates tan(x), x in radians, away from the poles.
func Tan(x float32) float32 {
	return Tan2Pi(inv2Pi * x)
}
