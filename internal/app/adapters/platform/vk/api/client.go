package api

import (
	"buttonhandler/internal/app/infrastructure/config"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient собирает клиент для VK API, при заданном прокси ходит через SOCKS5.
func NewHTTPClient(timeout time.Duration, p *config.Proxy) (*http.Client, error) {
	client := &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport,
	}

	if p == nil || p.Address == "" || p.Port == 0 {
		return client, nil
	}

	dialer, err := proxy.SOCKS5("tcp", net.JoinHostPort(p.Address, strconv.Itoa(p.Port)), nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer: %w", err)
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	return client, nil
}
