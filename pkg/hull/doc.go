// Package hull computes the convex hull of a 3D point cloud.
//
// The algorithm is incremental: it seeds a tetrahedron from extreme points,
// then repeatedly classifies the remaining points against the current faces,
// adds the most distant outside point and re-triangulates the hole left by
// the faces that point can see. All storage is supplied by the caller; see
// Compute for the buffer contract and Build for an allocating wrapper.
package hull
