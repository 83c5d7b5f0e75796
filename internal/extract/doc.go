// Package extract acquires readable content for study material generation:
// article text pulled from web pages via readability extraction, and plain
// text pulled from uploaded PDF documents.
package extract
