package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/tododash/internal/model"
)

// TLSListener accepts TLS connections using a certificate pair from disk.
type TLSListener struct {
	certFile string
	keyFile  string
}

func NewTLSListener(certFile, keyFile string) *TLSListener {
	return &TLSListener{certFile: certFile, keyFile: keyFile}
}

// Listen loads the key pair and starts a TLS listener on addr.
func (l *TLSListener) Listen(network, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return tls.Listen(network, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
}

// PlainListener accepts unencrypted connections.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(network, addr string) (net.Listener, error) {
	return net.Listen(network, addr)
}

// NewSecurityLayer returns a TLS listener when both files are set and a
// plain one otherwise.
func NewSecurityLayer(certFile, keyFile string) model.SecurityLayer {
	if certFile != "" && keyFile != "" {
		return NewTLSListener(certFile, keyFile)
	}
	return NewPlainListener()
}
