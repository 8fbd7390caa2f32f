// Package surfaceshare shares one GPU texture between a Direct2D producer
// and a Direct3D 11 consumer.
//
// The device layer lives in package d3d, the keyed-mutex ownership protocol
// in package handshake and the staging read-back in package readback.
// Package d2d binds the Direct2D device context on Windows; package render
// provides a portable gg-backed renderer that runs on top of the software
// device for platforms without Direct3D.
//
// A single round of the protocol looks like this:
//
//	producer: Acquire(0) -> BeginDraw -> draw -> EndDraw -> Release(0)
//	consumer: Acquire(1) -> draw/read -> Release(1)
//	producer: Acquire(0) -> read back -> Release(0)
//
// The draw session must be closed before the producer releases the mutex,
// since Direct2D only submits its batched commands on EndDraw.
package surfaceshare
