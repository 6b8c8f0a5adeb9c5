// Package serialization provides the native .lnet format for saving and loading
// letternet models.
//
// The .lnet format is a flat little-endian binary layout written in a fixed
// order:
//
//	Format Structure (version 2):
//	  [4 bytes: Magic "LNET"]
//	  [4 bytes: Version (uint32)]
//	  [4 bytes: Input size (uint32)]
//	  [4 bytes: Layer count N (uint32)]
//	  [N × 4 bytes: Output size of every layer (uint32)]
//	  [8 bytes: Learning rate (float64)]
//	  [8 bytes: Dropout rate (float64)]
//	  [N bytes: Activation code of every layer (uint8, 0 sigmoid, 1 softmax)]
//	  [Per layer: out×in weights row-major (float64), then out biases (float64)]
//	  [32 bytes: SHA-256 of every preceding byte]
//
// Version 1 files predate the dropout rate, the activation codes and the
// checksum. They are still readable: the reader applies an explicit legacy
// migration that sets DropoutRate to DefaultDropoutRate and every activation
// to sigmoid, logs the fallback, and lists the defaulted fields in
// Model.Migrated. Required fields (sizes and weights) are never defaulted.
//
// Files are written atomically: data goes to a temporary file in the target
// directory which is synced and renamed over the destination only after every
// byte has been written.
//
// Example usage:
//
//	// Save a model
//	if err := serialization.WriteFile("model.lnet", model); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load a model
//	model, err := serialization.ReadFile("model.lnet", serialization.ReadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
