// Package d2d binds a Direct2D device context to a Direct3D 11 texture so
// the texture can be drawn on with Direct2D. It is only available on
// Windows; elsewhere render.Canvas fills the same role.
package d2d
