package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/AlexandreIorio/dotlogs"
	"github.com/AlexandreIorio/dotlogs/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	svc, err := dotlogs.NewBuilder().
		Directory("./gnet_logs").
		LevelString("Debug").
		RotationInterval(dotlogs.RotateHour).
		Build()
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	gnetAdapter, err := compat.NewBuilder().WithService(svc).BuildGnet()
	if err != nil {
		panic(err)
	}

	// Editing gnet_logs/logs.toml while the server runs changes what reaches the sinks
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
