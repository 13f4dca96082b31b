package jfif

// BlockBasedImage stores the coefficient blocks of one component as a
// grid in raster order
type BlockBasedImage struct {
	// ComponentID is the frame component identifier
	ComponentID uint8

	// blocks holds BlockWidth*BlockHeight blocks, row by row
	blocks []Block

	blockWidth  int
	blockHeight int
}

// NewBlockBasedImage creates a zeroed grid of width x height blocks
func NewBlockBasedImage(componentID uint8, width, height int) *BlockBasedImage {
	return &BlockBasedImage{
		ComponentID: componentID,
		blocks:      make([]Block, width*height),
		blockWidth:  width,
		blockHeight: height,
	}
}

// BlockWidth returns the number of blocks per row
func (img *BlockBasedImage) BlockWidth() int {
	return img.blockWidth
}

// BlockHeight returns the number of block rows
func (img *BlockBasedImage) BlockHeight() int {
	return img.blockHeight
}

// Len returns the total number of blocks
func (img *BlockBasedImage) Len() int {
	return len(img.blocks)
}

// Blocks returns all blocks in raster order
func (img *BlockBasedImage) Blocks() []Block {
	return img.blocks
}

// At returns the block at column x, row y
func (img *BlockBasedImage) At(x, y int) *Block {
	return &img.blocks[y*img.blockWidth+x]
}

// Set stores a block at column x, row y
func (img *BlockBasedImage) Set(x, y int, block Block) {
	img.blocks[y*img.blockWidth+x] = block
}
