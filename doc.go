/*
Package blp loads Blizzard BLP2 textures for a World of Warcraft map renderer
and manages their GPU lifetime.

BLP2 stores a fixed header, a table of up to 16 mipmap offsets and sizes and a
256 entry palette, followed by the mip payloads. Payloads are either palette
indices with a separate alpha plane, DXT1/DXT3/DXT5 blocks or raw BGRA.
DXT blocks are decoded with github.com/woozymasta/bcn.

On top of the codec the package provides a Texture type that wraps the decoded
BGRA bytes, uploads them through a Device at most once per Unbind, and derives
terrain splat textures whose alpha channel is replaced by an upscaled 64x64
coverage mask. Archive abstracts game data access, Cache keeps decoded pixels
on disk in LZ4 chunk streams and Library shares loaded textures by name.
*/
package blp
