// Package spatial models the pose of sound emitters around a listener.
//
// Features:
//   - Quaternion orientation from roll/pitch/yaw with a fixed composition order
//   - Azimuth/elevation derivation with a degenerate-distance guard
//   - Parametric directivity patterns from omnidirectional to figure-eight
//   - Distance attenuation with logarithmic, linear and flat rolloff
//   - Scene registry wiring sources to attenuation and ambisonic encoders
//
// The package is control-plane only: it produces gains and angles for
// downstream renderers and never touches audio buffers.
package spatial
