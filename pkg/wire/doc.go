// Package wire defines the JSON wire format for the Qubi protocol.
//
// Qubi messages are single UDP datagrams carrying a JSON document.
// A request message batches up to 16 commands, each addressed to a
// module by id (or to every module with the "*" wildcard):
//
//	{
//	  "version": "1.0",
//	  "timestamp": 1712345678901,
//	  "sequence": 42,
//	  "commands": [
//	    { "module_id": "arm1",
//	      "module_type": "actuator",
//	      "action": "set_servo",
//	      "params": { "angle": 90 } }
//	  ]
//	}
//
// A reply is a flat envelope with a fixed key order:
//
//	{ "status": 200, "message": "OK", "module_id": "arm1",
//	  "timestamp": 1234, "data": { ... } }
//
// # Decoding modes
//
// The package provides two decoding disciplines. DecodeMessage is the
// lenient device-side path: the version gate is the only hard check,
// missing command fields fall back to zero values and unknown module
// types map to ModuleTypeCustom. Validate is the strict controller-side
// path used before a message leaves the sender.
//
// # Size bound
//
// Messages travel in single datagrams; there is no fragmentation.
// EncodeMessage refuses documents larger than MaxPacketSize so a
// conforming receiver never truncates a well-formed message.
package wire
