// Package wavmeta rewrites the metadata of existing WAV files.
//
// A single call replaces the bext, ID3, LIST/INFO, iXML and XMP (_PMX)
// chunks of a RIFF/WAVE file with freshly encoded ones derived from a flat
// field-name to value record. Every other chunk, including the audio data,
// is carried over byte-for-byte:
//
//	err := wavmeta.WriteMetadata("door_slam.wav", wavmeta.Record{
//		"CatID":       "DOORWood",
//		"Designer":    "Jane",
//		"Description": "door slam",
//	})
//
// Missing fields are never an error, they simply produce fewer frames,
// sub-chunks or elements. The only fatal conditions are an input that is
// not a RIFF/WAVE container and I/O failures, see WriteError.
//
// For inspection, Decoder reads the metadata chunks back into a Report.
package wavmeta
