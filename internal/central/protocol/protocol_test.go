package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/protocol"
)

const testMagic uint32 = 0x45545321

func TestDeframer_RoundTrip(t *testing.T) {
	body := []byte("<data><destId>GW001</destId></data>")
	wire := protocol.EncodeFrame(protocol.MsgReqSysCon, testMagic, body)

	d := protocol.NewDeframer(testMagic)
	d.Push(wire)

	frame, err := d.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, protocol.MsgReqSysCon, frame.Header.MessageID)
	assert.Equal(t, protocol.DataFormatXML, frame.Header.DataFormat)
	assert.Equal(t, testMagic, frame.Header.Magic)
	assert.Equal(t, body, frame.Body)

	frame, err = d.Next()
	require.NoError(t, err)
	assert.Nil(t, frame)
}

func TestDeframer_SplitDelivery(t *testing.T) {
	body := []byte("<data><cmd>alive</cmd></data>")
	wire := protocol.EncodeFrame(protocol.MsgReqSysSts, testMagic, body)

	d := protocol.NewDeframer(testMagic)

	// Byte at a time; the frame must only appear once complete.
	for i := 0; i < len(wire)-1; i++ {
		d.Push(wire[i : i+1])
		frame, err := d.Next()
		require.NoError(t, err)
		require.Nil(t, frame)
	}
	d.Push(wire[len(wire)-1:])

	frame, err := d.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, body, frame.Body)
}

func TestDeframer_MultipleFramesInOnePush(t *testing.T) {
	first := protocol.EncodeFrame(protocol.MsgNfyDisInfo, testMagic, []byte("one"))
	second := protocol.EncodeFrame(protocol.MsgResSysSts, testMagic, nil)

	d := protocol.NewDeframer(testMagic)
	d.Push(append(first, second...))

	frame, err := d.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, protocol.MsgNfyDisInfo, frame.Header.MessageID)
	assert.Equal(t, []byte("one"), frame.Body)

	frame, err = d.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, protocol.MsgResSysSts, frame.Header.MessageID)
	assert.Empty(t, frame.Body)

	frame, err = d.Next()
	require.NoError(t, err)
	assert.Nil(t, frame)
}

func TestDeframer_MagicMismatchPurgesBuffer(t *testing.T) {
	good := protocol.EncodeFrame(protocol.MsgNfyDisInfo, testMagic, []byte("alert"))
	bad := protocol.EncodeFrame(protocol.MsgNfyDisInfo, 0xdeadbeef, []byte("junk"))

	d := protocol.NewDeframer(testMagic)
	d.Push(append(bad, good...))

	frame, err := d.Next()
	require.Error(t, err)
	assert.Nil(t, frame)

	var ferr *protocol.FramingError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "magic")

	// The good frame behind the corrupt one is gone too; only fresh bytes
	// are framed.
	frame, err = d.Next()
	require.NoError(t, err)
	assert.Nil(t, frame)

	d.Push(good)
	frame, err = d.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, []byte("alert"), frame.Body)
}

func TestDeframer_OversizeBody(t *testing.T) {
	wire := protocol.EncodeFrame(protocol.MsgNfyDisInfo, testMagic, nil)
	// Forge a declared length past the cap.
	wire[12] = 0xff
	wire[13] = 0xff
	wire[14] = 0xff
	wire[15] = 0xff

	d := protocol.NewDeframer(testMagic)
	d.Push(wire)

	_, err := d.Next()
	var ferr *protocol.FramingError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "maximum")
}

func TestDigestResponse(t *testing.T) {
	assert.Equal(t, "47ba109d9da498c81c8533e707e89b51",
		protocol.A1("GW001", "cas-realm", "secret"))
	assert.Equal(t, "A540A34A68B316EF888166DB4E44D6AE",
		protocol.DigestResponse("GW001", "cas-realm", "secret", "abc123"))
}
