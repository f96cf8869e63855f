// full path: github.com/google/go-api-fence/guides/quickstart
package quickstart

import (
	"crypto/tls"
	"io"
	"net/http"
)

func insecureClient() *http.Client {
	config := &tls.Config{}
	config.InsecureSkipVerify = true // reported: certificate checks disabled
	return &http.Client{Transport: &http.Transport{TLSClientConfig: config}}
}

func fetchStatus(url string) (string, error) {
	resp, err := http.DefaultClient.Get(url) // reported: DefaultClient has no timeout
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", err
	}
	return resp.Status, nil
}
