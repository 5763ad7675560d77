package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/samy-vision/samy-bridge/internal/proto"
)

func benchmarkBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(Config{}, nil, testLogger())
	go hub.Run(ctx)

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i))
		hub.RegisterClient(c)
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	<-target.Events // initial idle

	msg := proto.EmotionChange(proto.MoodEnergetic)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Broadcast(msg)
		<-target.Events
	}
}

func BenchmarkBroadcast_10(b *testing.B)  { benchmarkBroadcast(b, 10) }
func BenchmarkBroadcast_100(b *testing.B) { benchmarkBroadcast(b, 100) }
func BenchmarkBroadcast_500(b *testing.B) { benchmarkBroadcast(b, 500) }
