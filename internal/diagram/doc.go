// Package diagram draws a truss and its member forces as an image.
//
// Beams are colored by force sense: blue for tension, red for compression
// and gray for zero-force members or a failed analysis. Supports are drawn
// as triangles, free joints as circles, and joints flagged by the analysis
// are highlighted.
package diagram
