/*
Package graffiti is a virtual graffiti painting engine. A simulated spray can is used to paint
onto a persistent paint surface, which in turn is used as a stencil to reveal a hidden artwork
layered over a wall texture.

The package provides a command line interface, which either opens an interactive window
or replays a recorded stroke script headlessly. To check the supported commands type:

	$ graffiti --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/graffiti"
	)

	func main() {
		cfg := graffiti.DefaultConfig()
		cfg.ArtworkTexture = "assets/art.png"

		s := graffiti.NewSession(cfg, 1280, 720)
		if err := s.Initialize(context.Background()); err != nil {
			log.Fatal(err)
		}
		hub := graffiti.NewEventHub()
		s.Activate(hub)
		defer s.Dispose()

		hub.Pointer(graffiti.PointerEvent{Kind: graffiti.PointerDown, X: 100, Y: 100})
		hub.Frame(1.0 / 60)
	}
*/
package graffiti
