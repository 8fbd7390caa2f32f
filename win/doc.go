// Package win holds the raw Windows entry points and the COM IUnknown
// plumbing shared by the d3d and d2d packages.
package win
