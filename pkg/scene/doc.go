// Package scene defines the scene graph types for hullgen.
// A scene is an immutable DAG of point sets, solids, samplers, transforms
// and groups. Every root group names one convex hull to build.
package scene
