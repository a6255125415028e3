package fetchers

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/andybalholm/brotli"
)

// decodingTransport 按Content-Encoding透明解压响应体
// 显式设置Accept-Encoding后net/http不再自动解压,需要在这里处理
// 解压后删除Content-Encoding,Colly看到的是明文,字符集转换也能正确进行
type decodingTransport struct {
	base http.RoundTripper
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	body, err := decodeBody(encoding, resp.Body)
	if errors.Is(err, io.EOF) {
		// 空响应体
		resp.Body.Close()
		body, err = http.NoBody, nil
	}
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("解压响应失败 (编码=%s): %w", encoding, err)
	}
	if body == nil {
		return resp, nil
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// decodeBody 未压缩或未知编码时返回nil
func decodeBody(encoding string, raw io.ReadCloser) (io.ReadCloser, error) {
	switch encoding {
	case "br":
		return &stackedReadCloser{Reader: brotli.NewReader(raw), closers: []io.Closer{raw}}, nil

	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, raw}}, nil

	case "deflate":
		// 规范要求zlib封装,但不少服务器发送裸deflate流
		br := bufio.NewReader(raw)
		if head, err := br.Peek(2); err == nil && isZlibHeader(head) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, err
			}
			return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, raw}}, nil
		}
		fr := flate.NewReader(br)
		return &stackedReadCloser{Reader: fr, closers: []io.Closer{fr, raw}}, nil

	case "", "identity":
		return nil, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", encoding)
		return nil, nil
	}
}

// isZlibHeader CMF/FLG 校验: CM=8 且 (CMF*256+FLG)%31==0
func isZlibHeader(b []byte) bool {
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
