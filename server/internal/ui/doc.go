// Package ui serves the HTML evaluation form of fuzzwell-server at "/".
//
// GET renders the form: a calorie level select, exercise and sleep sliders and
// an intensity level select. POST samples the chosen levels, evaluates the
// inputs through the shared runner and renders the score, band and
// recommendations under the form. Evaluation errors are shown on the page
// with the same status code the REST API would use.
//
// The template is embedded in the binary.
package ui
