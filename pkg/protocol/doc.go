// Package protocol defines the JSON messages exchanged between the thin
// client and a live session over WebSocket.
//
// Every frame is a JSON object with a "t" type field.
//
// Client to server:
//
//	{"t":"hello","hello":{"scrollY":0,"viewport":{"w":1280,"h":800},"features":{"io":true,"inert":true},"rects":{"12":{"top":0,"left":0,"width":1280,"height":64}}}}
//	{"t":"event","seq":4,"event":{"type":"click","target":"31"}}
//	{"t":"event","seq":5,"event":{"type":"keydown","target":"40","key":"Tab","deferred":true}}
//	{"t":"layout","layout":{"rects":{...}}}
//	{"t":"ping"}
//
// Server to client:
//
//	{"t":"welcome","session":"6f1c..."}
//	{"t":"patches","seq":7,"patches":[{"op":"addClass","t":"12","k":"is-scrolled"}]}
//	{"t":"error","error":{"code":"InvalidFrame","message":"..."}}
//	{"t":"pong"}
//
// Elements are addressed by their data-lid live id.
package protocol
