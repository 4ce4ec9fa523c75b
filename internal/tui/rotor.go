package tui

import "math"

const (
	rotorCols  = 30
	rotorRows  = 15
	// centre, in sub-pixels
	rotorCX    = rotorCols
	rotorCY    = rotorRows * 2
	rotorOuter = rotorRows*2 - 2
	rotorPoles = 4
	rotorTeeth = 8
)

// drawRotor renders the stator, its N/S poles and the rotor turned by
// angle degrees.
func drawRotor(c *Canvas, angle float64) {
	c.Clear()
	c.DrawCircle(rotorCX, rotorCY, rotorOuter)

	poleLen := float64(rotorOuter) - 6
	for i := 0; i < rotorPoles; i++ {
		a := float64(i) * math.Pi / 2
		x, y := polar(a, poleLen)
		c.DrawLine(rotorCX+int(math.Round(math.Cos(a)*4)), rotorCY+int(math.Round(math.Sin(a)*4)), x, y)

		lx, ly := polar(a, float64(rotorOuter)-2)
		pole := 'N'
		if i%2 == 1 {
			pole = 'S'
		}
		c.Label(lx, ly, pole)
	}

	offset := angle * math.Pi / 180
	spoke := poleLen - 4
	for i := 0; i < rotorTeeth; i++ {
		a := offset + float64(i)*2*math.Pi/rotorTeeth
		x0, y0 := polar(a, 3)
		x1, y1 := polar(a, spoke)
		c.DrawLine(x0, y0, x1, y1)
	}
}

func polar(a, r float64) (int, int) {
	return rotorCX + int(math.Round(r*math.Cos(a))), rotorCY + int(math.Round(r*math.Sin(a)))
}
