//go:build !no_containers

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/blendplan/core/model"
)

func startMosquitto(ctx context.Context, t *testing.T) string {
	t.Helper()
	conf := "listener 1883\nallow_anonymous true\npersistence false\n"
	path := filepath.Join(t.TempDir(), "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{{
			HostFilePath:      path,
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0644,
		}},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

func TestPlanPublisher_Mosquitto(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	broker := startMosquitto(ctx, t)

	received := make(chan paho.Message, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("listener"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("listener connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe("blendplan/plans/#", 1, func(_ paho.Client, m paho.Message) { received <- m }); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	cfg := Config{Enabled: true, Broker: broker, ClientID: "planner", QoS: 1}
	cfg.SetDefaults()
	pub, err := NewPlanPublisher(cfg)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Disconnect()

	plan := model.NewPlan(2, 1, []float64{20, 10}, 1600)
	plan.RunID = "it-1"
	if err := pub.PublishPlan(ctx, plan); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case m := <-received:
		if m.Topic() != "blendplan/plans/it-1" {
			t.Fatalf("unexpected topic %s", m.Topic())
		}
		var got model.Plan
		if err := json.Unmarshal(m.Payload(), &got); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if got.Profit != 1600 {
			t.Fatalf("unexpected plan %+v", got)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("plan not received")
	}
}
