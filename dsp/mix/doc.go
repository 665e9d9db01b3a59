// Package mix combines a dry mono signal with a stereo wet signal.
//
// The mixer does not clip. Levels above unity and feedback build-up pass
// through unchanged; limiting belongs to the host.
package mix
