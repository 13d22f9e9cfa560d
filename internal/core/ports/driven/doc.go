// Package driven defines the outbound ports of the core: interfaces the
// services depend on, implemented by adapters (OCR providers, the search
// store, configuration, text normalisers and post-processors).
package driven
