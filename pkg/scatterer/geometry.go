package scatterer

import "math"

// Vector is a point or displacement in 3-space.
type Vector [3]float64

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Matrix is a 3x3 rotation matrix in row-major order.
type Matrix [3][3]float64

// Apply returns m · v.
func (m Matrix) Apply(v Vector) Vector {
	var out Vector
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// RotationMatrix builds the zyz Euler rotation: a rotation by alpha
// about z, then beta about y, then gamma about z, all in radians.
func RotationMatrix(alpha, beta, gamma float64) Matrix {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	cg, sg := math.Cos(gamma), math.Sin(gamma)
	return Matrix{
		{ca*cb*cg - sa*sg, -ca*cb*sg - sa*cg, ca * sb},
		{sa*cb*cg + ca*sg, -sa*cb*sg + ca*cg, sa * sb},
		{-sb * cg, sb * sg, cb},
	}
}

// RotatePoints rotates every point by the zyz Euler angles about the
// origin.
func RotatePoints(points []Vector, alpha, beta, gamma float64) []Vector {
	m := RotationMatrix(alpha, beta, gamma)
	out := make([]Vector, len(points))
	for i, p := range points {
		out[i] = m.Apply(p)
	}
	return out
}

// centroid returns the mean of the given points.
func centroid(points []Vector) Vector {
	var c Vector
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	n := float64(len(points))
	return Vector{c[0] / n, c[1] / n, c[2] / n}
}
