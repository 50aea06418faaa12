/*
Package ollie relays spoken oscilloscope commands to bench instruments.

A voice platform turns speech into intents such as "measure" with the slots
type="frequency" and source="channel one". Ollie validates the slots, translates the
spoken vocabulary into the command dialect of the connected instrument, and writes
the resulting SCPI lines. Stepped adjustments ("zoom out", "increase the vertical
scale") read the live setting back first and move one entry along the instrument's
scale ladder.

# Dialects

Three instrument families are supported, each behind the same operation set:

  - keysight: InfiniiVision 3000T/6000-X over a persistent channel.
  - keysight-legacy: 1000-X driven one connection per command, no read-back.
  - rigol: DS/MSO series with logic analyzer channels.

Operations a dialect cannot perform fail with *domain.UnsupportedOperationError before
anything is written. The full matrix is available from backend.Matrix.

# Usage

	line, err := device.OpenUSBTMC(device.DefaultUSBTMCPath)
	if err != nil {
		log.Fatal(err)
	}

	relay, err := ollie.New(domain.DialectKeysight, line)
	if err != nil {
		log.Fatal(err)
	}
	defer relay.Close()
	go relay.Run(ctx)

	outcome, err := relay.Submit(ctx, domain.NewIntent("measure",
		domain.EnumSlot("type", "frequency"),
		domain.EnumSlot("source", "channel one"),
	))

Transports for MQTT (Hermes), Redis, HTTP and MCP live under pkg/adapters; the ollie
command wires them from a YAML configuration.
*/
package ollie
