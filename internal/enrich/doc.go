// Package enrich turns a bare technology name into a complete catalog
// record.
//
// The pipeline runs a fixed stage order per item: link resolution, homepage
// content fetch, popularity scoring, model enhancement, logo resolution,
// and final assembly. Enhancement is the only stage whose failure fails the
// item; the others degrade to zero values or defaults and log what was
// lost. Collaborators are injected as narrow interfaces so tests can stub
// each stage independently.
package enrich
