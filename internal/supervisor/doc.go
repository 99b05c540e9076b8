// Package supervisor keeps detection sessions alive across the camera
// fleet and turns incoming detection messages into recordings.
//
// Each camera runs an independent connect loop with fixed retry delays.
// Sessions are opened through the Dialer interface; production uses
// MQTT, tests substitute fakes.
package supervisor
