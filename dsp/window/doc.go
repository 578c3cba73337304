// Package window generates the analysis windows used by the vocoder stages.
package window
