package discovery

import (
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/consul/api"
)

// RegisterService registers this instance with Consul using a TCP check.
func RegisterService(serviceName string, servicePort int, consulAddr string) error {
	config := api.DefaultConfig()
	config.Address = consulAddr
	client, err := api.NewClient(config)
	if err != nil {
		return err
	}

	localIP, err := getOutboundIP()
	if err != nil {
		return err
	}

	// The ID must be unique per instance, so include address and port.
	serviceID := fmt.Sprintf("%s-%s-%d", serviceName, localIP, servicePort)

	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Port:    servicePort,
		Address: localIP,
		Tags:    []string{"shopmobile", "http"},
		Check: &api.AgentServiceCheck{
			TCP:                            fmt.Sprintf("%s:%d", localIP, servicePort),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return err
	}

	log.Printf("Service registered: %s (ID: %s) at %s:%d", serviceName, serviceID, localIP, servicePort)
	return nil
}

// getOutboundIP finds a non-loopback address; 127.0.0.1 is useless to the
// health checker once this runs inside a container network.
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
