// Package domain models the scene-preparation vocabulary shared by the
// pipeline stages: recognized source file types, extracted scenes, and the
// strict scene-id manifest.
//
// # Scene identity
//
// A scene is one addressable unit of observation data. Scene ids are derived
// deterministically from the source file:
//
//	image files:   the filename stem ("goes16_c02.png" → "goes16_c02")
//	gridded files: the value of the scene_id coordinate, used verbatim, when
//	               one is defined; otherwise "<stem>__<timestamp>" where the
//	               timestamp is the time coordinate value formatted with the
//	               layout 200602011504 (year, day, month, hour, minute).
//
// The day-before-month ordering in the timestamp layout is long-standing:
// existing scene databases and downstream metric jobs key on ids in this
// form, so the layout must not be reordered.
//
// # Manifest
//
// Ids must be unique across an entire run. The Manifest type enforces this
// with strict inserts: a collision returns DuplicateSceneIDError and the run
// aborts without writing a manifest file. There is no merge or
// rename-on-conflict behavior.
package domain
