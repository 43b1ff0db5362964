// Package logger records shell activity as structured JSON-lines events so
// sessions can be summarized after the fact.
package logger
