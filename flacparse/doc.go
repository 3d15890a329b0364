// Package flacparse implements a pull-model, resumable, byte-level parser
// for FLAC-encoded audio streams. It segments a stream into the marker,
// metadata blocks, and audio frames without decoding any audio samples,
// surfacing decoded header/frame metadata alongside each record.
//
// A State is created with Init, fed arbitrarily-sized byte chunks with
// Parse, and terminated with Flush once the caller has supplied the
// complete stream. State is single-owner and single-threaded: one State per
// stream, mutated only by the goroutine that holds it.
//
//	st := flacparse.Init(false)
//	var records []flacparse.Record
//	for _, chunk := range chunks {
//		recs, err := st.Parse(chunk)
//		if err != nil {
//			return err
//		}
//		records = append(records, recs...)
//	}
//	records = append(records, st.Flush())
package flacparse
