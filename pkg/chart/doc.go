// Package chart renders fuzzy variables as PNG line charts with gonum/plot.
//
// Membership draws every set of a variable over its universe, one coloured
// line per set with a legend. Aggregate draws the aggregated output curve of
// an evaluation as a filled area with a marker at the crisp score. Both
// return a *plot.Plot; PNG and the *PNG helpers rasterise it.
package chart
