// Package core holds small numeric and buffer helpers shared by the DSP packages.
package core
