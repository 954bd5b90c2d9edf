package client

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/ledgerclient/internal/common"
)

// withSessionCookies puts the jar's cookies for the API host into the
// outgoing metadata, replacing any cookie value already there.
func (c *HTTPClient) withSessionCookies(ctx context.Context) context.Context {
	cookies := c.jar.Cookies(c.baseURL)

	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.CookieMetadataKey)

	if len(cookies) > 0 {
		pairs := make([]string, 0, len(cookies))
		for _, ck := range cookies {
			pairs = append(pairs, ck.Name+"="+ck.Value)
		}
		md.Set(common.CookieMetadataKey, strings.Join(pairs, "; "))
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryClientInterceptor returns an interceptor that carries the cookie
// session on unary RPCs. A codes.Unauthenticated answer renews the session
// through the same coordinator as HTTP requests and replays the call once.
// Methods listed in exempt (full names such as "/ledger.Auth/Login") are
// never replayed.
func (c *HTTPClient) UnaryClientInterceptor(exempt ...string) grpc.UnaryClientInterceptor {
	skip := make(map[string]struct{}, len(exempt))
	for _, m := range exempt {
		skip[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		err := invoker(c.withSessionCookies(ctx), method, req, reply, cc, opts...)
		if err == nil {
			return nil
		}

		if st, ok := status.FromError(err); !ok || st.Code() != codes.Unauthenticated {
			return err
		}
		if _, ok := skip[method]; ok {
			return err
		}

		next, rerr := c.coordinator.Await(ctx)
		if rerr != nil {
			next()
			return rerr
		}

		c.recorder.RequestReplayed()
		c.logger.Debug(ctx, "replaying rpc", "method", method)

		// Cookies are read again so the replay carries the renewed session.
		ctx = c.withSessionCookies(ctx)
		next()
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
