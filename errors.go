package blp

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidMagic indicates the stream does not start with the BLP2 magic.
	ErrInvalidMagic = errors.New("invalid BLP magic")
	// ErrHeaderRead indicates BLP header read failed.
	ErrHeaderRead = errors.New("reading BLP header failed")
	// ErrPaletteRead indicates BLP palette read failed.
	ErrPaletteRead = errors.New("reading BLP palette failed")
	// ErrReadData indicates reading the texture payload failed.
	ErrReadData = errors.New("reading texture data failed")
	// ErrUnsupportedCompression indicates a BLP content or compression kind this package cannot decode.
	ErrUnsupportedCompression = errors.New("unsupported BLP compression")
	// ErrUnsupportedAlphaDepth indicates a palette alpha depth other than 0, 1, 4 or 8.
	ErrUnsupportedAlphaDepth = errors.New("unsupported alpha depth")
	// ErrInvalidDimensions indicates zero or negative texture dimensions.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrMipLevelOutOfRange indicates a requested mipmap level the file does not carry.
	ErrMipLevelOutOfRange = errors.New("mip level out of range")
	// ErrMipOutOfBounds indicates a mipmap offset/size pointing past the end of the data.
	ErrMipOutOfBounds = errors.New("mipmap out of bounds")
	// ErrMipSizeMismatch indicates mipmap payload size mismatch.
	ErrMipSizeMismatch = errors.New("mipmap size mismatch")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrInvalidFormat indicates unsupported output format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrEncodeMipmap indicates mipmap encoding failed.
	ErrEncodeMipmap = errors.New("encode mipmap failed")
	// ErrWriteHeader indicates BLP header write failed.
	ErrWriteHeader = errors.New("writing BLP header failed")
	// ErrWriteMipmap indicates mipmap payload write failed.
	ErrWriteMipmap = errors.New("writing mipmap failed")

	// ErrPixelSizeMismatch indicates pixel bytes that are not width*height*4 long.
	ErrPixelSizeMismatch = errors.New("pixel data size mismatch")
	// ErrAlreadyBound indicates an alpha map applied to a texture already armed for upload.
	ErrAlreadyBound = errors.New("texture already armed for upload")
	// ErrEmptyTexture indicates an operation that needs pixel data on a placeholder texture.
	ErrEmptyTexture = errors.New("texture has no pixel data")
	// ErrNilDevice indicates a GPU operation without a device.
	ErrNilDevice = errors.New("nil device")
	// ErrCreateTexture indicates the device failed to allocate a texture handle.
	ErrCreateTexture = errors.New("create GPU texture failed")
	// ErrUpload indicates the device failed to upload texture data.
	ErrUpload = errors.New("upload texture failed")
	// ErrUnknownFilter indicates an unknown alpha resampling filter.
	ErrUnknownFilter = errors.New("unknown alpha filter")

	// ErrFileNotFound indicates the archive has no file with the requested name.
	ErrFileNotFound = errors.New("file not found in archive")
	// ErrInvalidName indicates an empty or escaping archive file name.
	ErrInvalidName = errors.New("invalid archive file name")
	// ErrLoadTexture indicates loading a texture from an archive failed.
	ErrLoadTexture = errors.New("load texture failed")

	// ErrCacheMiss indicates the cache has no entry for the key.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheEntryCorrupt indicates a cache entry with a bad header.
	ErrCacheEntryCorrupt = errors.New("corrupt cache entry")
	// ErrCacheWrite indicates writing a cache entry failed.
	ErrCacheWrite = errors.New("writing cache entry failed")
	// ErrInputTooLarge indicates input data is too large to encode.
	ErrInputTooLarge = errors.New("input data too large")
	// ErrCompressedDataTooLarge indicates compressed payload exceeds limits.
	ErrCompressedDataTooLarge = errors.New("compressed data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrInvalidTargetSize indicates invalid decoded target size.
	ErrInvalidTargetSize = errors.New("invalid target size")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrChunkHeaderRead indicates LZ4 chunk header read failed.
	ErrChunkHeaderRead = errors.New("reading chunk header failed")
	// ErrChunkDataRead indicates LZ4 chunk data read failed.
	ErrChunkDataRead = errors.New("reading chunk data failed")
)
