// Package ocr reads printed labels on detected parts using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Given the
// rectangles produced by part detection, ReadLabels crops each part and
// returns the text found inside it, in the same order as the parts.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Language data files are required for each language used.
//
// # Performance Considerations
//
// OCR is far slower than part detection. Prefer a character whitelist when
// labels are known to be numeric, and avoid running OCR on every scan when
// only counts are needed.
package ocr
