package ocr

// MarkdownMIMEType identifies markup produced by an OCR provider. It is
// distinct from text/markdown so that hand-written markdown ingested
// directly is not run through the OCR cleaning pass.
const MarkdownMIMEType = "text/x-ocr-markdown"
