package chess

// Vector is an integer displacement on the board. It is also used as an
// unvalidated coordinate before it is converted to a Position.
type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Mul(k int) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// Div truncates toward zero on both components.
func (v Vector) Div(k int) Vector {
	return Vector{X: v.X / k, Y: v.Y / k}
}
