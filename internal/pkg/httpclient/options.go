package httpclient

import "net/http"

// Option customizes a single request.
type Option func(*requestOptions)

type requestOptions struct {
	query   Params
	body    any
	headers http.Header
}

// WithQuery adds query parameters. Later calls override earlier keys.
func WithQuery(p Params) Option {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = Params{}
		}
		for k, v := range p {
			o.query[k] = v
		}
	}
}

// WithBody attaches a JSON body to methods that take none in their signature (DELETE).
func WithBody(body any) Option {
	return func(o *requestOptions) {
		o.body = body
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

func collectOptions(opts []Option) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}
